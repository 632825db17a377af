package backend

import (
	"context"
	"time"

	"planner/internal/cache"
	"planner/internal/services"
	"planner/internal/store"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired service and what the caller needs to keep
// the store fresh.
type BackendResult struct {
	Service *services.EventService
	Store   store.Store

	// Cached and Cache are nil when caching is disabled.
	Cached *store.Cached
	Cache  *cache.LRUCache[store.Snapshot]

	// WatchPath is the file to watch for external writes, empty when the
	// backend is not file based.
	WatchPath string

	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Publisher is a service publisher that holds a connection.
type Publisher interface {
	services.Publisher
	Close() error
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// CSV specific
	EventsFile string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Optional notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot cache, zero disables it
	CacheTTL time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
