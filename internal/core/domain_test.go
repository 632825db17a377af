package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	day := time.Date(2025, 3, 7, 15, 4, 5, 0, time.Local)
	e, err := NewEvent(day, "Dinner, with friends", "1.999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Date != "2025-03-07" {
		t.Fatalf("date: got %q", e.Date)
	}
	if e.Description != "Dinner, with friends" {
		t.Fatalf("description: got %q", e.Description)
	}
	if e.Expense != "1.99" {
		t.Fatalf("expense: got %q", e.Expense)
	}

	e, err = NewEvent(day, "line one\r\nline two\r\r\nthree\rfour", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Description != "line one\nline two\nthree\rfour" {
		t.Fatalf("line breaks not normalized: %q", e.Description)
	}

	if _, err := NewEvent(day, "x", "twelve"); !errors.Is(err, ErrInvalidExpense) {
		t.Fatalf("expected ErrInvalidExpense, got %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	cases := []struct {
		e  Event
		ok bool
	}{
		{Event{Date: "2025-01-01", Description: "ok", Expense: "1.00"}, true},
		{Event{Date: "2025-01-01", Description: "", Expense: "0.00"}, true},
		{Event{Date: "01/01/2025", Description: "a", Expense: "1.00"}, false},
		{Event{Date: "2025-02-30", Description: "a", Expense: "1.00"}, false},
		{Event{Date: "2025-01-01", Description: "a", Expense: "abc"}, false},
		{Event{Date: "2025-01-01", Description: "a", Expense: "-2.00"}, false},
	}
	for i, tc := range cases {
		err := tc.e.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestEventFromFields(t *testing.T) {
	e, err := EventFromFields([]string{"2025-01-01", "a", "1.00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := e.Fields()
	if len(got) != 3 || got[0] != "2025-01-01" || got[1] != "a" || got[2] != "1.00" {
		t.Fatalf("unexpected fields: %v", got)
	}

	for _, row := range [][]string{{"2025-01-01", "a"}, {"2025-01-01", "a", "1", "x"}, nil} {
		if _, err := EventFromFields(row); !errors.Is(err, ErrFieldCount) {
			t.Fatalf("row %v: expected ErrFieldCount, got %v", row, err)
		}
	}
}
