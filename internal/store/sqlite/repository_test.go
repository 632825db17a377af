package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"planner/internal/core"
	"planner/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(context.Background(), filepath.Join(t.TempDir(), "data", "planner.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryAppendLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	snap, err := repo.Load(ctx)
	if err != nil || snap.Len() != 0 || snap.NotInitialized {
		t.Fatalf("unexpected empty snapshot: %+v err=%v", snap, err)
	}

	want := []core.Event{
		{Date: "2025-05-01", Description: "Gym", Expense: "30.00"},
		{Date: "2025-05-01", Description: "Books, two", Expense: "15.99"},
		{Date: "2025-05-02", Description: "", Expense: "0.00"},
	}
	for _, e := range want {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	snap, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Len() != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), snap.Len())
	}
	for i := range want {
		if snap.Events[i] != want[i] {
			t.Fatalf("event %d: got %+v want %+v", i, snap.Events[i], want[i])
		}
	}
}

func TestRepositoryReopenKeepsEvents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "planner.db")

	repo, err := NewRepository(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Append(ctx, core.Event{Date: "2025-01-01", Description: "a", Expense: "1.00"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	repo.Close()

	repo, err = NewRepository(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	snap, err := repo.Load(ctx)
	if err != nil || snap.Len() != 1 {
		t.Fatalf("expected 1 event after reopen, got %+v err=%v", snap, err)
	}
}

func TestRepositoryRejectsInvalidEvent(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.Append(context.Background(), core.Event{Date: "2025-13-01", Description: "x", Expense: "1.00"})
	if !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestRepositoryClosedReportsOpError(t *testing.T) {
	repo := newTestRepository(t)
	repo.Close()

	_, err := repo.Load(context.Background())
	var opErr *store.OpError
	if !errors.As(err, &opErr) || opErr.Op != store.OpLoad {
		t.Fatalf("expected load OpError, got %v", err)
	}
}
