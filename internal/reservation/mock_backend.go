// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package reservation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/ManuGH/reservo/internal/auth"
	"github.com/go-chi/chi/v5"
)

// Route names understood by MockBackend.Script, FailNext and Calls.
const (
	RouteCheckSpot         = "check-spot"
	RouteReserveSpot       = "reserve-spot"
	RouteReservationStatus = "reservation-status"
	RouteWaitingListStatus = "waiting-list-status"
	RouteWaitingListLeave  = "waiting-list-leave"
	RoutePayments          = "payments"
	RouteCancel            = "cancel"
)

// Messages the mock uses for capacity exhaustion and missing holds.
const (
	MockWaitingListMessage = "As vagas terminaram, você foi adicionado à lista de espera"
	MockNotFoundMessage    = "Reserva não encontrada"
	MockUpstreamMessage    = "Falha interna do serviço"
)

// MockResponse is one scripted answer.
type MockResponse struct {
	Status int
	Body   any
}

type mockEvent struct {
	capacity int
	held     int
	queue    []string
}

type mockTicket struct {
	eventID   string
	principal string
	expiresAt time.Time
	paid      bool
}

// MockBackend is an in-memory reservation service speaking the same wire
// contract as the real one. It backs local development and tests.
type MockBackend struct {
	mu         sync.Mutex
	events     map[string]*mockEvent
	tickets    map[string]*mockTicket
	scripts    map[string][]MockResponse
	failures   map[string]int
	calls      map[string]int
	token      string
	holdWindow time.Duration
	now        func() time.Time
	nextID     int
}

// NewMockBackend returns an empty backend with a 10 minute hold window.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		events:     make(map[string]*mockEvent),
		tickets:    make(map[string]*mockTicket),
		scripts:    make(map[string][]MockResponse),
		failures:   make(map[string]int),
		calls:      make(map[string]int),
		holdWindow: 10 * time.Minute,
		now:        time.Now,
	}
}

// AddEvent registers an event with the given number of spots.
func (m *MockBackend) AddEvent(eventID string, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventID] = &mockEvent{capacity: capacity}
}

// RequireToken makes every route answer 401 unless the bearer token matches.
func (m *MockBackend) RequireToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Script queues responses for a route; they are served before the default behaviour.
func (m *MockBackend) Script(route string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[route] = append(m.scripts[route], responses...)
}

// FailNext makes the next n calls to route answer 500.
func (m *MockBackend) FailNext(route string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[route] += n
}

// Calls returns how many requests route has received.
func (m *MockBackend) Calls(route string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[route]
}

// Release frees one spot on an event, as if another holder cancelled.
func (m *MockBackend) Release(eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev, ok := m.events[eventID]; ok {
		ev.capacity++
		if len(ev.queue) > 0 {
			ev.queue = ev.queue[1:]
		}
	}
}

// SetRemaining moves a ticket's expiry so that seconds remain.
func (m *MockBackend) SetRemaining(ticketID string, seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tickets[ticketID]; ok {
		t.expiresAt = m.now().Add(time.Duration(seconds) * time.Second)
	}
}

// Handler returns the chi router serving the wire contract.
func (m *MockBackend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/events/{id}/check-spot", m.wrap(RouteCheckSpot, m.checkSpot))
	r.Post("/events/{id}/reserve-spot", m.wrap(RouteReserveSpot, m.reserveSpot))
	r.Get("/reservations/{ticketId}/status", m.wrap(RouteReservationStatus, m.reservationStatus))
	r.Get("/events/{id}/waiting-list/status", m.wrap(RouteWaitingListStatus, m.waitingListStatus))
	r.Post("/events/{id}/waiting-list/leave", m.wrap(RouteWaitingListLeave, m.leaveWaitingList))
	r.Post("/payments", m.wrap(RoutePayments, m.payment))
	r.Post("/reservations/{ticketId}/cancel", m.wrap(RouteCancel, m.cancel))
	return r
}

type mockHandler func(w http.ResponseWriter, r *http.Request, principal string)

func (m *MockBackend) wrap(route string, h mockHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.calls[route]++
		token := auth.ExtractToken(r)
		if m.token != "" && token != m.token {
			m.mu.Unlock()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
			return
		}
		if m.failures[route] > 0 {
			m.failures[route]--
			m.mu.Unlock()
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": MockUpstreamMessage})
			return
		}
		if queued := m.scripts[route]; len(queued) > 0 {
			resp := queued[0]
			m.scripts[route] = queued[1:]
			m.mu.Unlock()
			writeJSON(w, resp.Status, resp.Body)
			return
		}
		defer m.mu.Unlock()
		principal := auth.NewPrincipal(token)
		if principal.Anonymous() {
			h(w, r, "anonymous")
			return
		}
		h(w, r, principal.ID)
	}
}

func (m *MockBackend) event(id string) *mockEvent {
	ev, ok := m.events[id]
	if !ok {
		ev = &mockEvent{capacity: 1}
		m.events[id] = ev
	}
	return ev
}

func (m *MockBackend) checkSpot(w http.ResponseWriter, r *http.Request, principal string) {
	ev := m.event(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, SpotAvailability{
		IsAvailable: ev.held < ev.capacity,
		WaitingList: indexOf(ev.queue, principal) >= 0,
	})
}

func (m *MockBackend) reserveSpot(w http.ResponseWriter, r *http.Request, principal string) {
	eventID := chi.URLParam(r, "id")
	var body struct {
		UserType UserType `json:"userType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.UserType.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Tipo de usuário inválido"})
		return
	}
	ev := m.event(eventID)
	if ev.held >= ev.capacity {
		if indexOf(ev.queue, principal) < 0 {
			ev.queue = append(ev.queue, principal)
		}
		writeJSON(w, http.StatusConflict, map[string]string{"message": MockWaitingListMessage})
		return
	}
	ev.held++
	if i := indexOf(ev.queue, principal); i >= 0 {
		ev.queue = append(ev.queue[:i], ev.queue[i+1:]...)
	}
	m.nextID++
	spotID := fmt.Sprintf("spot-%d", m.nextID)
	m.tickets[spotID] = &mockTicket{eventID: eventID, principal: principal, expiresAt: m.now().Add(m.holdWindow)}
	writeJSON(w, http.StatusCreated, ReservationRecord{
		SpotID:   spotID,
		Email:    principal + "@mock.local",
		EventID:  eventID,
		UserType: body.UserType,
		Status:   "reserved",
	})
}

func (m *MockBackend) reservationStatus(w http.ResponseWriter, r *http.Request, _ string) {
	t, ok := m.tickets[chi.URLParam(r, "ticketId")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": MockNotFoundMessage})
		return
	}
	secs := int(math.Ceil(t.expiresAt.Sub(m.now()).Seconds()))
	if secs < 0 {
		secs = 0
	}
	writeJSON(w, http.StatusOK, RemainingTime{RemainingSeconds: secs, RemainingMinutes: secs / 60})
}

func (m *MockBackend) waitingListStatus(w http.ResponseWriter, r *http.Request, principal string) {
	ev := m.event(chi.URLParam(r, "id"))
	i := indexOf(ev.queue, principal)
	if i < 0 {
		writeJSON(w, http.StatusOK, WaitingListStatus{InQueue: false})
		return
	}
	writeJSON(w, http.StatusOK, WaitingListStatus{
		InQueue:      true,
		Position:     IntPtr(i + 1),
		TotalInQueue: IntPtr(len(ev.queue)),
	})
}

func (m *MockBackend) leaveWaitingList(w http.ResponseWriter, r *http.Request, principal string) {
	ev := m.event(chi.URLParam(r, "id"))
	i := indexOf(ev.queue, principal)
	if i < 0 {
		writeJSON(w, http.StatusOK, LeaveResult{Success: false, Message: "Você não está na lista de espera"})
		return
	}
	ev.queue = append(ev.queue[:i], ev.queue[i+1:]...)
	writeJSON(w, http.StatusOK, LeaveResult{Success: true})
}

func (m *MockBackend) payment(w http.ResponseWriter, r *http.Request, _ string) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requisição inválida"})
		return
	}
	t, ok := m.tickets[req.SpotID]
	if !ok || !t.expiresAt.After(m.now()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": MockNotFoundMessage})
		return
	}
	t.paid = true
	writeJSON(w, http.StatusOK, PaymentResponse{ID: "pay-" + req.SpotID, Status: PaymentStatusPagoPT})
}

func (m *MockBackend) cancel(w http.ResponseWriter, r *http.Request, _ string) {
	ticketID := chi.URLParam(r, "ticketId")
	t, ok := m.tickets[ticketID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": MockNotFoundMessage})
		return
	}
	delete(m.tickets, ticketID)
	if ev, ok := m.events[t.eventID]; ok && ev.held > 0 {
		ev.held--
	}
	w.WriteHeader(http.StatusNoContent)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
