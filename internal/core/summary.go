package core

import "github.com/shopspring/decimal"

// ExpenseSummary is the aggregate view over a set of events.
type ExpenseSummary struct {
	Count       int // all events considered
	Parsed      int // events whose expense parsed
	Unparseable int // events excluded from Total
	Total       decimal.Decimal
	Average     decimal.Decimal // Total / Count; zero when Count is 0
}
