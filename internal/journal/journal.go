// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package journal records every flow transition in SQLite for later audit.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/reservo/internal/flow"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/persistence/sqlite"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS flow_transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flow_id TEXT NOT NULL,
	event_id TEXT NOT NULL DEFAULT '',
	from_state TEXT NOT NULL,
	to_state TEXT NOT NULL,
	event TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	at TEXT NOT NULL
)`

const indexFlow = `CREATE INDEX IF NOT EXISTS idx_flow_transitions_flow ON flow_transitions(flow_id, id)`

// Entry is one recorded transition.
type Entry struct {
	ID      int64     `json:"id"`
	FlowID  string    `json:"flowId"`
	EventID string    `json:"eventId,omitempty"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Event   string    `json:"event"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

const (
	queueSize     = 256
	appendTimeout = 2 * time.Second
)

// Journal is an append-only transition log. Observer appends go through a
// bounded queue drained by a single writer goroutine.
type Journal struct {
	db     *sql.DB
	logger zerolog.Logger

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
	queue  chan queued
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// queued is either an entry or a flush barrier.
type queued struct {
	entry   Entry
	flushed chan struct{}
}

// Open opens or creates the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, schema, indexFlow); err != nil {
		_ = db.Close()
		return nil, err
	}
	j := &Journal{
		db:     db,
		logger: xglog.WithComponent("journal"),
		queue:  make(chan queued, queueSize),
		done:   make(chan struct{}),
	}
	go j.writeLoop()
	return j, nil
}

func (j *Journal) writeLoop() {
	defer close(j.done)
	for q := range j.queue {
		if q.flushed != nil {
			close(q.flushed)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		err := j.Append(ctx, q.entry)
		cancel()
		if err != nil {
			j.logger.Warn().Err(err).Str(xglog.FieldFlowID, q.entry.FlowID).Msg("journal append failed")
		}
	}
}

// Append writes one entry. A zero At is stamped with the current time.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO flow_transitions (flow_id, event_id, from_state, to_state, event, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.FlowID, e.EventID, e.From, e.To, e.Event, e.Error, e.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	return nil
}

// List returns the entries of flowID oldest first. limit <= 0 means all.
func (j *Journal) List(ctx context.Context, flowID string, limit int) ([]Entry, error) {
	query := `SELECT id, flow_id, event_id, from_state, to_state, event, error, at
		FROM flow_transitions WHERE flow_id = ? ORDER BY id`
	args := []any{flowID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.FlowID, &e.EventID, &e.From, &e.To, &e.Event, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.At = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Verify runs an SQLite integrity check on the journal.
func (j *Journal) Verify(ctx context.Context, mode sqlite.VerifyMode) ([]string, error) {
	return sqlite.VerifyIntegrity(ctx, j.db, mode)
}

// Ping checks that the database is reachable.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Observer returns a flow observer that queues every transition and
// returns at once. When the queue is full the transition is dropped and
// logged; the flow is never held up.
func (j *Journal) Observer() flow.Observer {
	return func(ch flow.Change) {
		e := Entry{
			FlowID:  ch.Snapshot.FlowID,
			EventID: ch.Snapshot.EventID,
			From:    string(ch.From),
			To:      string(ch.To),
			Event:   string(ch.Event),
			Error:   ch.Snapshot.Error,
			At:      ch.Snapshot.UpdatedAt,
		}
		j.mu.RLock()
		defer j.mu.RUnlock()
		if j.closed {
			return
		}
		select {
		case j.queue <- queued{entry: e}:
		default:
			j.logger.Warn().
				Str(xglog.FieldFlowID, e.FlowID).
				Str(xglog.FieldEvent, "journal.dropped").
				Msg("journal queue full, transition dropped")
		}
	}
}

// Flush waits until every transition queued before the call is written.
func (j *Journal) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	j.mu.RLock()
	if j.closed {
		j.mu.RUnlock()
		return nil
	}
	select {
	case j.queue <- queued{flushed: flushed}:
		j.mu.RUnlock()
	case <-ctx.Done():
		j.mu.RUnlock()
		return ctx.Err()
	}
	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains queued transitions and closes the database. Safe to call
// more than once.
func (j *Journal) Close() error {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.queue)
		j.mu.Unlock()
		<-j.done
		j.closeErr = j.db.Close()
	})
	return j.closeErr
}
