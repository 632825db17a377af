package http

import (
	"errors"
	"net/http"
	"strings"

	"planner/internal/core"
	"planner/internal/log"
)

type eventJSON struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Expense     string `json:"expense"`
}

type listJSON struct {
	Date           string      `json:"date,omitempty"`
	Events         []eventJSON `json:"events"`
	Count          int         `json:"count"`
	Skipped        int         `json:"skipped"`
	NotInitialized bool        `json:"not_initialized"`
}

type summaryJSON struct {
	Count          int     `json:"count"`
	Parsed         int     `json:"parsed"`
	Unparseable    int     `json:"unparseable"`
	Total          string  `json:"total"`
	Average        *string `json:"average,omitempty"`
	Skipped        int     `json:"skipped"`
	NotInitialized bool    `json:"not_initialized"`
}

func toJSON(events []core.Event) []eventJSON {
	out := make([]eventJSON, len(events))
	for i, e := range events {
		out[i] = eventJSON{Date: e.Date, Description: e.Description, Expense: e.Expense}
	}
	return out
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().Text("ok").Write(w)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		view, err := s.events.Day(ctx, date)
		if errors.Is(err, core.ErrInvalidDate) {
			BadRequestError("date must be YYYY-MM-DD").Write(w)
			return
		}
		if err != nil {
			log.FromContext(ctx).ErrorContext(ctx, "Day lookup failed", log.FieldEventDate, date, log.FieldError, err)
			InternalServerError("failed to load events").Write(w)
			return
		}
		NewResponse().JSON(listJSON{Date: view.Date, Events: toJSON(view.Events), Count: len(view.Events)}).Write(w)
		return
	}

	snap, err := s.events.List(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Listing failed", log.FieldError, err)
		InternalServerError("failed to load events").Write(w)
		return
	}
	NewResponse().JSON(listJSON{
		Events:         toJSON(snap.Events),
		Count:          snap.Len(),
		Skipped:        snap.Skipped,
		NotInitialized: snap.NotInitialized,
	}).Write(w)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := ParseEventRequest(r, s.now())
	if err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	e, err := s.events.RecordDate(ctx, req.Date, req.Description, req.Expense)
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		UnprocessableEntityError("date must be YYYY-MM-DD").Write(w)
		return
	case errors.Is(err, core.ErrNegativeExpense):
		UnprocessableEntityError("expense must not be negative").Write(w)
		return
	case errors.Is(err, core.ErrInvalidExpense):
		UnprocessableEntityError("invalid expense, please enter a number").Write(w)
		return
	case err != nil:
		InternalServerError("failed to save event").Write(w)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		JSON(eventJSON{Date: e.Date, Description: e.Description, Expense: e.Expense}).
		Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := s.events.Summary(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Summary failed", log.FieldError, err)
		InternalServerError("failed to load events").Write(w)
		return
	}

	body := summaryJSON{
		Count:          view.Count,
		Parsed:         view.Parsed,
		Unparseable:    view.Unparseable,
		Total:          core.FormatExpense(view.Total),
		Skipped:        view.Skipped,
		NotInitialized: view.NotInitialized,
	}
	if !view.Empty() {
		avg := core.FormatExpense(view.Average)
		body.Average = &avg
	}
	NewResponse().JSON(body).Write(w)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	out, err := s.events.Calendar(ctx, params.Year, params.Month)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Calendar failed", log.FieldError, err)
		InternalServerError("failed to load events").Write(w)
		return
	}
	NewResponse().Text(out).Write(w)
}

