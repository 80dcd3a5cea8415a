package aggregation

import (
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

// ValuationEstimate is net * multiplier, floored at 0.
func ValuationEstimate(records []transaction.Transaction, multiplier decimal.Decimal) decimal.Decimal {
	return floorAtZero(Net(records).Mul(multiplier))
}

func floorAtZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Window is an inclusive date range.
type Window struct {
	From date.Date
	To   date.Date
}

func (w Window) Contains(d date.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// UpcomingRange spans from the first day of today's month to today advanced by
// monthsAhead months, clamped to the end of the target month. Negative values count as 0.
func UpcomingRange(today date.Date, monthsAhead int) Window {
	if monthsAhead < 0 {
		monthsAhead = 0
	}
	return Window{From: today.FirstOfMonth(), To: today.AddMonths(monthsAhead)}
}

// UpcomingWindow returns the records dated within UpcomingRange(today, monthsAhead).
func UpcomingWindow(records []transaction.Transaction, today date.Date, monthsAhead int) []transaction.Transaction {
	window := UpcomingRange(today, monthsAhead)
	upcoming := make([]transaction.Transaction, 0)
	for _, r := range records {
		if window.Contains(r.Date) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming
}
