// Package finance is the entry point of the presentation layer into the ledger:
// it turns submissions into records, appends them to the session ledger and
// builds the dashboard views.
package finance

import (
	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/recurrence"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

// TransactionRequest is a single, possibly recurring, submission. Unit, Kind
// and Status are parsed against the catalog. A zero Date means today.
type TransactionRequest struct {
	Unit       string
	Kind       string
	Category   string
	Amount     decimal.Decimal
	Date       date.Date
	Status     string
	Note       string
	Recurrence *recurrence.Policy
}

type WeightRequest struct {
	Unit    string
	Percent decimal.Decimal
}

// AllocationRequest splits Amount over the weighted units as expenses.
// An empty Category falls back to the catalog allocation label.
type AllocationRequest struct {
	Amount   decimal.Decimal
	Weights  []WeightRequest
	Category string
	Date     date.Date
	Note     string
}

// DashboardFilter narrows the dashboard. No units means all units, zero dates
// are open bounds. Nil MonthsAhead uses the configured default.
type DashboardFilter struct {
	Units       []string
	From        date.Date
	To          date.Date
	Granularity string
	MonthsAhead *int
}

type ListFilter struct {
	Units []string
	Kind  string
	From  date.Date
	To    date.Date
}

type Dashboard struct {
	Today       date.Date
	From        date.Date
	To          date.Date
	Currency    string
	Units       []transaction.Unit
	Count       int
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
	Valuation   decimal.Decimal
	UnitTotals  []aggregation.UnitSummary
	Categories  []aggregation.Group
	Hierarchy   []aggregation.UnitNode
	Granularity aggregation.Granularity
	Trend       []aggregation.PeriodPoint
	Upcoming    Upcoming
}

// Upcoming is the forward-looking projection of the dashboard.
type Upcoming struct {
	Window  aggregation.Window
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Pending int
	Series  []aggregation.PeriodPoint
}

// Settings are the dashboard and formatting defaults.
type Settings struct {
	Currency    string
	Multiplier  decimal.Decimal
	MonthsAhead int
	Granularity aggregation.Granularity
}
