// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package selection

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps selections in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Selection
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Selection)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Selection, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sel, ok := m.entries[key]
	return sel, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, sel Selection, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = sel
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) Close() error { return nil }
