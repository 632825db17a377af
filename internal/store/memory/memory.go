package memory

import (
	"context"
	"fmt"
	"sync"

	"planner/internal/core"
	"planner/internal/store"
)

// Store keeps events in process memory. Rows seeded with a field count other
// than three are dropped on Load, like any other backend.
type Store struct {
	mu    sync.Mutex
	rows  [][]string
	empty bool
}

var _ store.Store = (*Store)(nil)

// New returns an initialized store holding events in order.
func New(events ...core.Event) *Store {
	s := &Store{}
	for _, e := range events {
		s.rows = append(s.rows, e.Fields())
	}
	return s
}

// NewUninitialized returns a store that reports NotInitialized until the
// first Append.
func NewUninitialized() *Store {
	return &Store{empty: true}
}

// NewFromRows seeds the store with raw rows, malformed ones included.
func NewFromRows(rows [][]string) *Store {
	s := &Store{}
	for _, r := range rows {
		s.rows = append(s.rows, append([]string(nil), r...))
	}
	return s
}

// Append stores the event after all existing ones.
func (s *Store) Append(_ context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e.Fields())
	s.empty = false
	return nil
}

// Load returns a copy of the stored events.
func (s *Store) Load(_ context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.empty {
		return store.Snapshot{NotInitialized: true}, nil
	}
	var snap store.Snapshot
	for _, r := range s.rows {
		e, err := core.EventFromFields(r)
		if err != nil {
			snap.Skipped++
			continue
		}
		snap.Events = append(snap.Events, e)
	}
	return snap, nil
}
