// Package store defines the Record Store port and the types shared by its
// implementations. A store is append-only: events can be added and the whole
// collection reloaded, nothing else.
package store

import (
	"context"
	"fmt"

	"planner/internal/core"
)

// Ports for outbound adapters.
type (
	// Loader reads every stored event.
	Loader interface {
		// Load returns all accepted rows in insertion order. On an I/O
		// failure it returns the rows read so far together with an *OpError.
		Load(ctx context.Context) (Snapshot, error)
	}

	// Appender writes a new event after all existing ones.
	Appender interface {
		Append(ctx context.Context, e core.Event) error
	}

	Store interface {
		Loader
		Appender
	}
)

// Snapshot is a read-only copy of the stored events.
type Snapshot struct {
	Events []core.Event

	// Skipped counts stored rows dropped for having a field count other than three.
	Skipped int

	// NotInitialized is set when the backing storage does not exist yet.
	// Events is empty in that case; it is not an error.
	NotInitialized bool
}

// Len returns the number of accepted events.
func (s Snapshot) Len() int {
	return len(s.Events)
}

// OpError reports a storage access failure.
type OpError struct {
	Op    string // "load" or "append"
	Store string // backing location, e.g. a file path
	Err   error
}

const (
	OpLoad   = "load"
	OpAppend = "append"
)

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Store, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
