package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"planner/internal/calendar"
	"planner/internal/core"
	"planner/internal/log"
	"planner/internal/query"
	"planner/internal/stats"
	"planner/internal/store"
)

// Publisher announces events after they have been stored.
type Publisher interface {
	PublishEventRecorded(ctx context.Context, e core.Event) error
}

// DayView holds the events of one date.
type DayView struct {
	Date   string
	Events []core.Event
}

// SummaryView is the expense overview together with the events it covers.
type SummaryView struct {
	core.ExpenseSummary
	Events         []core.Event
	Skipped        int
	NotInitialized bool
}

// Empty reports whether there were no events to summarize.
func (v SummaryView) Empty() bool {
	return v.Count == 0
}

// EventService is what the CLI and HTTP layers call. It owns the store and
// the optional publisher.
type EventService struct {
	store     store.Store
	publisher Publisher
	backend   string
	logger    *log.StructuredLogger
}

// NewEventService wires a store and an optional publisher. backend names
// the store in logs.
func NewEventService(st store.Store, publisher Publisher, backend string) *EventService {
	return &EventService{
		store:     st,
		publisher: publisher,
		backend:   backend,
		logger:    log.NewStructuredLogger(log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentEvent})),
	}
}

// Record creates an event for day from user input and appends it. The
// expense is truncated to two decimals before it is stored.
func (s *EventService) Record(ctx context.Context, day time.Time, description, expenseInput string) (core.Event, error) {
	e, err := core.NewEvent(day, description, expenseInput)
	if err != nil {
		return core.Event{}, err
	}

	if err := s.store.Append(ctx, e); err != nil {
		s.logger.LogError(ctx, "Failed to record event", err, log.ComponentStore, log.OpRecord,
			log.NewFields().WithEvent(e.Date, e.Description, e.Expense))
		return core.Event{}, fmt.Errorf("record event: %w", err)
	}
	s.logger.LogEventRecorded(ctx, e.Date, e.Description, e.Expense, s.backend)

	if err := s.publish(ctx, e); err != nil {
		// The event is stored; a lost notification does not fail the request.
		s.logger.LogError(ctx, "Failed to publish event recorded message", err, log.ComponentAMQP, log.OpPublish, nil)
	}

	return e, nil
}

// RecordDate is Record with a YYYY-MM-DD date string.
func (s *EventService) RecordDate(ctx context.Context, date, description, expenseInput string) (core.Event, error) {
	day, err := core.ParseDate(date)
	if err != nil {
		return core.Event{}, err
	}
	return s.Record(ctx, day, description, expenseInput)
}

func (s *EventService) publish(ctx context.Context, e core.Event) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping event recorded message")
		return nil
	}
	return s.publisher.PublishEventRecorded(ctx, e)
}

// Day returns the events whose date equals date, in insertion order.
func (s *EventService) Day(ctx context.Context, date string) (DayView, error) {
	if _, err := core.ParseDate(date); err != nil {
		return DayView{}, err
	}
	snap, err := s.load(ctx)
	view := DayView{Date: date, Events: query.ByDate(snap.Events, date)}
	return view, err
}

// List returns everything in the store.
func (s *EventService) List(ctx context.Context) (store.Snapshot, error) {
	return s.load(ctx)
}

// Summary computes total and average over every stored event. An empty store
// is not an error; the view reports Empty.
func (s *EventService) Summary(ctx context.Context) (SummaryView, error) {
	snap, err := s.load(ctx)
	summary, sumErr := stats.Summarize(snap.Events)
	if sumErr != nil && !errors.Is(sumErr, stats.ErrNoEvents) {
		return SummaryView{}, fmt.Errorf("summarize events: %w", sumErr)
	}
	view := SummaryView{
		ExpenseSummary: summary,
		Events:         snap.Events,
		Skipped:        snap.Skipped,
		NotInitialized: snap.NotInitialized,
	}
	if view.Unparseable > 0 {
		slog.WarnContext(ctx, "Some expenses could not be parsed",
			log.FieldOperation, log.OpSummary,
			"unparseable", view.Unparseable)
	}
	return view, err
}

// Calendar renders the month grid with the days that have events marked.
func (s *EventService) Calendar(ctx context.Context, year int, month time.Month) (string, error) {
	if month < time.January || month > time.December {
		return "", fmt.Errorf("invalid month %d", month)
	}
	if year < 1 || year > 9999 {
		return "", fmt.Errorf("invalid year %d", year)
	}
	snap, err := s.load(ctx)
	return calendar.MonthWithEvents(year, month, query.DaysInMonth(snap.Events, year, month)), err
}

func (s *EventService) load(ctx context.Context) (store.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		var opErr *store.OpError
		if errors.As(err, &opErr) {
			s.logger.LogError(ctx, "Failed to load events", err, log.ComponentStore, log.OpLoad,
				log.LogFields{"store": opErr.Store})
		}
		return snap, fmt.Errorf("load events: %w", err)
	}
	if snap.Skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed rows", log.FieldSkipped, snap.Skipped, log.FieldBackend, s.backend)
	}
	return snap, nil
}

// Close releases the store and the publisher when they hold resources.
func (s *EventService) Close() error {
	var errs []error

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close event service: %w", errors.Join(errs...))
	}
	return nil
}
