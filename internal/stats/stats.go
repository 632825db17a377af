// Package stats computes expense totals and averages over loaded events.
// It does no I/O.
package stats

import (
	"errors"

	"planner/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNoEvents is returned when an average is requested over no events.
var ErrNoEvents = errors.New("no events to average")

// Total sums the expense of every event. Expenses that do not parse are
// left out of the sum.
func Total(events []core.Event) decimal.Decimal {
	total, _ := sum(events)
	return total
}

// Average divides Total by the number of events given, counting events
// whose expense did not parse.
func Average(events []core.Event) (decimal.Decimal, error) {
	if len(events) == 0 {
		return decimal.Zero, ErrNoEvents
	}
	return Total(events).Div(decimal.NewFromInt(int64(len(events)))), nil
}

// Summarize returns totals together with how many expenses were parsed or
// skipped. For an empty input it returns a zero summary and ErrNoEvents.
func Summarize(events []core.Event) (core.ExpenseSummary, error) {
	total, parsed := sum(events)
	s := core.ExpenseSummary{
		Count:       len(events),
		Parsed:      parsed,
		Unparseable: len(events) - parsed,
		Total:       total,
	}
	avg, err := Average(events)
	if err != nil {
		return s, err
	}
	s.Average = avg
	return s, nil
}

func sum(events []core.Event) (decimal.Decimal, int) {
	total := decimal.Zero
	parsed := 0
	for _, e := range events {
		amount, err := core.ParseExpense(e.Expense)
		if err != nil {
			continue
		}
		total = total.Add(amount)
		parsed++
	}
	return total, parsed
}
