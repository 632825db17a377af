// Package sqlite stores events in an append-only SQLite table. The row id
// gives insertion order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"planner/internal/core"
	"planner/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Repository)(nil)

// NewRepository opens (creating if needed) the database at dbPath and
// applies migrations.
func NewRepository(ctx context.Context, dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, path: dbPath}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append inserts the event as a new row.
func (r *Repository) Append(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO events (date, description, expense) VALUES (?, ?, ?)",
		e.Date, e.Description, e.Expense)
	if err != nil {
		return &store.OpError{Op: store.OpAppend, Store: r.path, Err: fmt.Errorf("insert event: %w", err)}
	}

	id, _ := res.LastInsertId()
	slog.InfoContext(ctx, "Event saved to SQLite",
		"id", id,
		"date", e.Date,
		"expense", e.Expense)
	return nil
}

// Load returns every event in insertion order.
func (r *Repository) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	rows, err := r.db.QueryContext(ctx, "SELECT date, description, expense FROM events ORDER BY id")
	if err != nil {
		return snap, &store.OpError{Op: store.OpLoad, Store: r.path, Err: fmt.Errorf("query events: %w", err)}
	}
	defer rows.Close()

	for rows.Next() {
		var e core.Event
		if err := rows.Scan(&e.Date, &e.Description, &e.Expense); err != nil {
			return snap, &store.OpError{Op: store.OpLoad, Store: r.path, Err: fmt.Errorf("scan event: %w", err)}
		}
		snap.Events = append(snap.Events, e)
	}
	if err := rows.Err(); err != nil {
		return snap, &store.OpError{Op: store.OpLoad, Store: r.path, Err: fmt.Errorf("iterate events: %w", err)}
	}

	return snap, nil
}
