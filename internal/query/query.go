// Package query filters loaded events. It does no I/O.
package query

import (
	"fmt"
	"strings"
	"time"

	"planner/internal/core"
)

// ByDate returns the events whose Date is exactly date, in input order.
// Matching is plain string equality on the stored value, so a date written in
// any form other than YYYY-MM-DD matches nothing. The result is never nil.
func ByDate(events []core.Event, date string) []core.Event {
	out := make([]core.Event, 0)
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// OnDay returns the events recorded for the calendar day of t.
func OnDay(events []core.Event, t time.Time) []core.Event {
	return ByDate(events, core.FormatDate(t))
}

// DaysInMonth counts events per day of the given month. Keys are days of the
// month; days without events are absent.
func DaysInMonth(events []core.Event, year int, month time.Month) map[int]int {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	days := make(map[int]int)
	for _, e := range events {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}
		t, err := e.Day()
		if err != nil {
			continue
		}
		days[t.Day()]++
	}
	return days
}
