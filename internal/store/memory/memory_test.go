package memory

import (
	"context"
	"testing"

	"planner/internal/core"
)

func TestMemoryStoreAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewUninitialized()
	snap, err := s.Load(ctx)
	if err != nil || !snap.NotInitialized || snap.Len() != 0 {
		t.Fatalf("unexpected initial snapshot: %+v err=%v", snap, err)
	}

	first := core.Event{Date: "2025-01-01", Description: "a", Expense: "1.00"}
	second := core.Event{Date: "2025-01-01", Description: "b", Expense: "2.00"}
	for _, e := range []core.Event{first, second} {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Append(ctx, core.Event{Date: "bad", Expense: "1.00"}); err == nil {
		t.Fatalf("expected validation error")
	}

	snap, err = s.Load(ctx)
	if err != nil || snap.NotInitialized {
		t.Fatalf("unexpected snapshot: %+v err=%v", snap, err)
	}
	if snap.Len() != 2 || snap.Events[0] != first || snap.Events[1] != second {
		t.Fatalf("unexpected events: %+v", snap.Events)
	}

	// Mutating the snapshot must not reach the store.
	snap.Events[0].Description = "changed"
	again, _ := s.Load(ctx)
	if again.Events[0].Description != "a" {
		t.Fatalf("snapshot shares storage with the store")
	}
}

func TestNewFromRowsSkipsMalformed(t *testing.T) {
	s := NewFromRows([][]string{
		{"2025-01-01", "ok", "1.00"},
		{"2025-01-01", "short"},
		{"2025-01-01", "long", "1.00", "extra"},
	})
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Len() != 1 || snap.Skipped != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
