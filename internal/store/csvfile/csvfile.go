// Package csvfile stores events in a flat, header-less CSV file, one event
// per line in the order date,description,expense.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"planner/internal/core"
	"planner/internal/store"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// Ensure interface conformance
var _ store.Store = (*Store)(nil)

// New returns a store backed by the file at path. The file is not touched
// until the first Append; a missing file is an empty store.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads every row of the file. Rows without exactly three fields are
// skipped and counted.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "No event file found; starting fresh", "path", s.path)
		snap.NotInitialized = true
		return snap, nil
	}
	if err != nil {
		return snap, s.opError(store.OpLoad, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return snap, s.opError(store.OpLoad, fmt.Errorf("read row %d: %w", snap.Len()+snap.Skipped+1, err))
		}
		e, err := core.EventFromFields(row)
		if err != nil {
			snap.Skipped++
			continue
		}
		snap.Events = append(snap.Events, e)
	}

	if snap.Skipped > 0 {
		slog.DebugContext(ctx, "Skipped malformed rows", "path", s.path, "skipped", snap.Skipped)
	}
	return snap, nil
}

// Append writes e as a new line at the end of the file, creating the file
// (and its directory) if needed. Existing content is never read or rewritten.
// CRLF line breaks in the description are stored as LF.
func (s *Store) Append(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s.opError(store.OpAppend, fmt.Errorf("create directory: %w", err))
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return s.opError(store.OpAppend, err)
	}

	e.Description = core.NormalizeLineBreaks(e.Description)
	w := csv.NewWriter(f)
	if err := w.Write(e.Fields()); err != nil {
		f.Close()
		return s.opError(store.OpAppend, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return s.opError(store.OpAppend, err)
	}
	if err := f.Close(); err != nil {
		return s.opError(store.OpAppend, err)
	}

	slog.DebugContext(ctx, "Event appended", "path", s.path, "date", e.Date)
	return nil
}

func (s *Store) opError(op string, err error) error {
	return &store.OpError{Op: op, Store: s.path, Err: err}
}
