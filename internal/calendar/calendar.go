// Package calendar renders a plain-text month grid, weeks starting on Monday.
package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	dayWidth  = 2
	lineWidth = 7*(dayWidth+1) - 1
)

var weekHeader = "Mo Tu We Th Fr Sa Su"

// Month renders the grid for month of year:
//
//	    October 2026
//	Mo Tu We Th Fr Sa Su
//	          1  2  3  4
//	 5  6  7  8  9 10 11
//	...
func Month(year int, month time.Month) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %d", month, year)
	if pad := (lineWidth - len(title)) / 2; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(weekHeader)
	b.WriteByte('\n')

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday = 0
	days := first.AddDate(0, 1, -1).Day()

	cells := make([]string, 0, 7)
	flush := func() {
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteByte('\n')
		cells = cells[:0]
	}
	for i := 0; i < offset; i++ {
		cells = append(cells, strings.Repeat(" ", dayWidth))
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, fmt.Sprintf("%*d", dayWidth, d))
		if len(cells) == 7 {
			flush()
		}
	}
	if len(cells) > 0 {
		flush()
	}
	return b.String()
}

// MonthWithEvents renders Month followed by a line listing the days that
// have events, with their count when above one. counts maps day of month to
// number of events.
func MonthWithEvents(year int, month time.Month, counts map[int]int) string {
	out := Month(year, month)
	if len(counts) == 0 {
		return out
	}

	days := make([]int, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Ints(days)

	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
		if n := counts[d]; n > 1 {
			parts[i] += fmt.Sprintf(" (%d)", n)
		}
	}
	return out + "Days with events: " + strings.Join(parts, ", ") + "\n"
}
