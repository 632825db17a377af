package stats

import (
	"errors"
	"testing"

	"planner/internal/core"

	"github.com/shopspring/decimal"
)

func events(expenses ...string) []core.Event {
	out := make([]core.Event, len(expenses))
	for i, x := range expenses {
		out[i] = core.Event{Date: "2025-01-01", Description: "e", Expense: x}
	}
	return out
}

func TestTotal(t *testing.T) {
	cases := []struct {
		name     string
		expenses []string
		want     string
	}{
		{"empty", nil, "0.00"},
		{"two", []string{"10.00", "5.50"}, "15.50"},
		{"skips unparseable", []string{"10.00", "abc"}, "10.00"},
		{"whitespace and exponent", []string{" 1.25 ", "1e1"}, "11.25"},
		{"all unparseable", []string{"", "n/a"}, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(events(tc.expenses...)).StringFixed(2); got != tc.want {
				t.Fatalf("Total = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAverage(t *testing.T) {
	avg, err := Average(events("10.00", "5.50", "2.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.RequireFromString("17.50").Div(decimal.NewFromInt(3))
	if !avg.Equal(want) {
		t.Fatalf("Average = %s, want %s", avg, want)
	}
	if avg.StringFixed(2) != "5.83" {
		t.Fatalf("Average rounded = %s", avg.StringFixed(2))
	}
}

func TestAverageCountsUnparseable(t *testing.T) {
	in := events("10.00", "abc")
	if got := Total(in); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("Total = %s", got)
	}
	avg, err := Average(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !avg.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("Average = %s, want 5", avg)
	}
}

func TestAverageEmpty(t *testing.T) {
	if _, err := Average(nil); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(events("10.00", "abc", "5.00", "x"))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.Count != 4 || s.Parsed != 2 || s.Unparseable != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Total.StringFixed(2) != "15.00" || s.Average.StringFixed(2) != "3.75" {
		t.Fatalf("unexpected amounts: total=%s avg=%s", s.Total, s.Average)
	}

	empty, err := Summarize(nil)
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
	if empty.Count != 0 || !empty.Average.IsZero() || !empty.Total.IsZero() {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}
