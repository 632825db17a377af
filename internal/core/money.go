// Package core provides expense parsing and handling utilities.
//
// Expenses are handled as exact decimals. Values entered by a user are
// truncated to cents (floor of the value scaled by 100), never rounded, so the
// stored amount never exceeds what was typed.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpensePlaces is the number of fractional digits kept for an expense.
const ExpensePlaces = 2

// maxExpenseDigits bounds both the integer digits and the exponent of an
// accepted expense. Exponent notation would otherwise let a short input
// expand into millions of digits.
const maxExpenseDigits = 18

// ParseExpense parses a stored or typed expense value.
//
// Surrounding whitespace is ignored and both plain (12.34) and exponent
// (1.2e1) notation are accepted. Sign is preserved; callers decide whether a
// negative value is acceptable.
//
// Examples:
//
//	ParseExpense("12.34")  -> 12.34, nil
//	ParseExpense(" 5.5 ")  -> 5.5, nil
//	ParseExpense("abc")    -> 0, ErrInvalidExpense
//	ParseExpense("1e30")   -> 0, ErrInvalidExpense
func ParseExpense(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidExpense)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidExpense, s)
	}
	if !withinExpenseRange(d) {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidExpense, s)
	}
	return d, nil
}

// ParseExpenseInput parses user input for a new event, rejecting negative
// amounts and truncating to two decimal places.
func ParseExpenseInput(s string) (decimal.Decimal, error) {
	d, err := ParseExpense(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeExpense
	}
	return TruncateExpense(d), nil
}

// TruncateExpense floors d to two decimal places: floor(d*100)/100.
// 1.999 becomes 1.99 and -1.231 becomes -1.24.
func TruncateExpense(d decimal.Decimal) decimal.Decimal {
	return d.Shift(ExpensePlaces).Floor().Shift(-ExpensePlaces)
}

// FormatExpense renders d with exactly two fractional digits.
func FormatExpense(d decimal.Decimal) string {
	return d.StringFixed(ExpensePlaces)
}

func withinExpenseRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxExpenseDigits || exp > maxExpenseDigits {
		return false
	}
	digits := int64(len(d.Coefficient().String()))
	if d.IsNegative() {
		digits--
	}
	return digits+exp <= maxExpenseDigits
}
