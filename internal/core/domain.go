package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format used for storage and date lookups.
const DateLayout = "2006-01-02"

// FieldCount is the number of fields of a serialized event.
const FieldCount = 3

type (
	// Event is one recorded (date, description, expense) triple, kept in its
	// serialized string form so that rows read back from storage round-trip
	// unchanged.
	Event struct {
		Date        string
		Description string
		Expense     string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrNegativeExpense = errors.New("negative expense")
	ErrFieldCount      = errors.New("wrong field count")
)

// NewEvent builds an event from user input. The expense text is parsed and
// truncated to two decimal places; CRLF line breaks in the description
// become LF.
func NewEvent(day time.Time, description, expenseInput string) (Event, error) {
	amount, err := ParseExpenseInput(expenseInput)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Date:        FormatDate(day),
		Description: NormalizeLineBreaks(description),
		Expense:     FormatExpense(amount),
	}, nil
}

// NormalizeLineBreaks turns every run of carriage returns followed by a line
// feed into a single line feed. CSV readers drop the carriage return before a
// line feed, so only the normalized text survives a round trip.
func NormalizeLineBreaks(s string) string {
	for strings.Contains(s, "\r\n") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	return s
}

// FormatDate renders t in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Day returns the parsed date of the event.
func (e Event) Day() (time.Time, error) {
	return ParseDate(e.Date)
}

// Fields returns the event in storage order.
func (e Event) Fields() []string {
	return []string{e.Date, e.Description, e.Expense}
}

// EventFromFields rebuilds an event from a stored row. Rows must have exactly
// three fields; nothing else is checked.
func EventFromFields(fields []string) (Event, error) {
	if len(fields) != FieldCount {
		return Event{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}
	return Event{Date: fields[0], Description: fields[1], Expense: fields[2]}, nil
}

// Validate checks the invariants an event must hold before it is stored.
func (e Event) Validate() error {
	if _, err := e.Day(); err != nil {
		return err
	}
	amount, err := ParseExpense(e.Expense)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return ErrNegativeExpense
	}
	return nil
}
