package backend

import (
	"context"
	"fmt"
	"log/slog"

	"planner/internal/amqp"
	"planner/internal/cache"
	"planner/internal/services"
	"planner/internal/store"
	"planner/internal/store/csvfile"
	"planner/internal/store/memory"
	"planner/internal/store/sheets"
	"planner/internal/store/sqlite"
)

// cacheSize bounds the snapshot cache; one entry per store is enough.
const cacheSize = 4

// DialFunc connects a publisher for the given AMQP settings.
type DialFunc func(url, exchange, queue string) (Publisher, error)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	dial   DialFunc
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
		dial: func(url, exchange, queue string) (Publisher, error) {
			return amqp.NewClient(url, exchange, queue)
		},
	}
}

// WithDialer replaces how publishers are connected.
func (f *DefaultFactory) WithDialer(dial DialFunc) *DefaultFactory {
	f.dial = dial
	return f
}

var _ Factory = (*DefaultFactory)(nil)

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	st, watchPath, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: st, WatchPath: watchPath}
	if config.CacheTTL > 0 {
		result.Cache = cache.NewLRUCache[store.Snapshot](cacheSize, config.CacheTTL)
		result.Cached = store.NewCached(st, result.Cache, config.Type.String())
		result.Store = result.Cached
		f.logger.Info("Snapshot cache enabled", "ttl", config.CacheTTL)
	}

	var publisher services.Publisher
	if p := f.createPublisher(config); p != nil {
		publisher = p
	}
	result.Service = services.NewEventService(result.Store, publisher, config.Type.String())
	result.Cleanup = result.Service.Close

	return result, nil
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (store.Store, string, error) {
	switch config.Type {
	case CSVBackend:
		st := csvfile.New(config.EventsFile)
		f.logger.Info("Initialized CSV backend", "path", st.Path())
		return st, st.Path(), nil

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(ctx, config.SQLiteDBPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return repo, "", nil

	case SheetsBackend:
		cli, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)
		return cli, "", nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return memory.NewUninitialized(), "", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createPublisher returns nil when AMQP is not configured or unreachable;
// events are still stored without notifications.
func (f *DefaultFactory) createPublisher(config Config) Publisher {
	if config.AMQPURL == "" {
		return nil
	}
	publisher, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return publisher
}
