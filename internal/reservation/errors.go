// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package reservation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrWaitingList         = errors.New("reservation: spots exhausted, moved to waiting list")
	ErrRejected            = errors.New("reservation: request rejected")
	ErrNotFound            = errors.New("reservation: resource not found")
	ErrUnauthorized        = errors.New("reservation: unauthorized")
	ErrUpstreamUnavailable = errors.New("reservation: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("reservation: internal error (5xx)")
	ErrBadResponse         = errors.New("reservation: invalid response format or malformed data")
	ErrTimeout             = errors.New("reservation: request timed out")
)

// FallbackMessage is shown when the service gave no message of its own.
const FallbackMessage = "Erro ao processar a requisição"

// waitingListPhrases are matched byte-for-byte against the service message.
// The service reports capacity exhaustion only through this free text.
var waitingListPhrases = []string{"lista de espera", "vagas terminaram"}

// IsWaitingListMessage reports whether a service message means the caller
// was moved to (or belongs on) the waiting list.
func IsWaitingListMessage(message string) bool {
	for _, phrase := range waitingListPhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// ErrorKind is the closed set of failure classes the rest of the code switches on.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindWaitingList
	KindRejected
	KindNotFound
	KindUnauthorized
	KindUpstream
	KindBadResponse
	KindTransport
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindWaitingList:
		return "waiting_list"
	case KindRejected:
		return "rejected"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindUpstream:
		return "upstream"
	case KindBadResponse:
		return "bad_response"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindWaitingList:
		return ErrWaitingList
	case KindRejected:
		return ErrRejected
	case KindNotFound:
		return ErrNotFound
	case KindUnauthorized:
		return ErrUnauthorized
	case KindUpstream:
		return ErrUpstreamError
	case KindBadResponse:
		return ErrBadResponse
	case KindTimeout:
		return ErrTimeout
	default:
		return ErrUpstreamUnavailable
	}
}

// Error is the rich error returned by every Client call.
type Error struct {
	Kind      ErrorKind
	Operation string
	Status    int
	Message   string // verbatim service message, empty if none was given
	Err       error  // nested lower-level error (net.Error, ErrCircuitOpen, ...)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("reservation: %s: %s", e.Operation, e.Kind)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the nested cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// classifyStatus maps an HTTP failure to a kind. The message is checked first:
// the waiting-list phrases win over whatever status carried them.
func classifyStatus(status int, message string) ErrorKind {
	if IsWaitingListMessage(message) {
		return KindWaitingList
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindUpstream
	case status >= 400:
		return KindRejected
	}
	return KindBadResponse
}

func transportError(op string, err error) *Error {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Operation: op, Err: err}
}

// KindOf classifies any error. Errors that did not come from the Client are
// classified by their text, so plain errors carrying a waiting-list phrase
// still route to the waiting list.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if IsWaitingListMessage(err.Error()) {
		return KindWaitingList
	}
	return KindUnknown
}

// MessageOf returns the text to show a user: the service's own message when
// there is one, otherwise FallbackMessage.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		if rerr.Message != "" {
			return rerr.Message
		}
		return FallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// IsTechnical reports whether err is an infrastructure failure, as opposed to
// the service answering with a decision. Only technical failures trip breakers.
func IsTechnical(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindTimeout, KindUpstream:
		return true
	}
	return false
}
