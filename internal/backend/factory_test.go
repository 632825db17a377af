package backend

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planner/internal/config"
	"planner/internal/core"
)

type fakePublisher struct {
	events []core.Event
	closed bool
}

func (p *fakePublisher) PublishEventRecorded(_ context.Context, e core.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func TestBackendType(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("postgres").IsValid() {
		t.Error("postgres should not be valid")
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	app := &config.Config{
		DataBackend:  "csv",
		EventsFile:   "events.csv",
		AMQPURL:      "amqp://localhost/",
		AMQPExchange: "planner",
		AMQPQueue:    "event_recorded",
		CacheTTL:     time.Minute,
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != CSVBackend || cfg.EventsFile != "events.csv" || cfg.CacheTTL != time.Minute || cfg.AMQPQueue != "event_recorded" {
		t.Errorf("unexpected backend config: %+v", cfg)
	}

	app.DataBackend = "floppy"
	if _, err := FromAppConfig(app); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"csv ok", Config{Type: CSVBackend, EventsFile: "e.csv"}, ""},
		{"csv without file", Config{Type: CSVBackend}, "events file path is required"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path is required"},
		{"sheets without id", Config{Type: SheetsBackend}, "Google Spreadsheet ID is required"},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "x"}, "GoogleServiceAccountJSON"},
		{"memory ok", Config{Type: MemoryBackend}, ""},
		{"negative ttl", Config{Type: MemoryBackend, CacheTTL: -time.Second}, "cache TTL"},
		{"unknown", Config{Type: "tape"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateCSVBackendWithCacheAndPublisher(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.csv")
	pub := &fakePublisher{}

	f := NewFactory(nil).WithDialer(func(url, exchange, queue string) (Publisher, error) {
		if url != "amqp://localhost/" || exchange != "planner" || queue != "event_recorded" {
			t.Errorf("unexpected dial arguments: %s %s %s", url, exchange, queue)
		}
		return pub, nil
	})

	res, err := f.CreateBackend(ctx, Config{
		Type:         CSVBackend,
		EventsFile:   path,
		AMQPURL:      "amqp://localhost/",
		AMQPExchange: "planner",
		AMQPQueue:    "event_recorded",
		CacheTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.Cached == nil || res.WatchPath != path {
		t.Fatalf("expected cache and watch path, got %+v", res)
	}

	if _, err := res.Service.RecordDate(ctx, "2025-07-01", "Picnic", "12.345"); err != nil {
		t.Fatalf("RecordDate() error = %v", err)
	}
	snap, err := res.Service.List(ctx)
	if err != nil || snap.Len() != 1 || snap.Events[0].Expense != "12.34" {
		t.Fatalf("unexpected listing: %+v (err=%v)", snap, err)
	}
	if len(pub.events) != 1 {
		t.Errorf("expected one notification, got %d", len(pub.events))
	}

	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if !pub.closed {
		t.Error("publisher should be closed by cleanup")
	}
}

func TestCreateBackendPublisherFailureIsTolerated(t *testing.T) {
	f := NewFactory(nil).WithDialer(func(string, string, string) (Publisher, error) {
		return nil, errors.New("connection refused")
	})

	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, AMQPURL: "amqp://nowhere/"})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.Cached != nil || res.Cache != nil || res.WatchPath != "" {
		t.Errorf("memory backend without TTL should have no cache or watch path: %+v", res)
	}
	if _, err := res.Service.RecordDate(context.Background(), "2025-07-01", "Picnic", "1"); err != nil {
		t.Fatalf("RecordDate() error = %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "planner.db")

	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: dbPath, CacheTTL: time.Minute})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if _, err := res.Service.RecordDate(ctx, "2025-07-02", "Museum", "8"); err != nil {
		t.Fatalf("RecordDate() error = %v", err)
	}
	view, err := res.Service.Day(ctx, "2025-07-02")
	if err != nil || len(view.Events) != 1 {
		t.Fatalf("unexpected day view: %+v (err=%v)", view, err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
}

func TestCreateBackendInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SheetsBackend}); err == nil {
		t.Fatal("expected validation error")
	}
}
