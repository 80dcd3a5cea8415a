package aggregation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

type Granularity string

const (
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case "", Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case Yearly:
		return Yearly, nil
	}
	return "", transaction.NewValidationError("granularity", "must be one of monthly, quarterly, yearly, got %q", s)
}

// Key returns the bucket of d: "2026-01", "2026-Q1" or "2026".
// Keys of one granularity sort chronologically as strings.
func (g Granularity) Key(d date.Date) string {
	switch g {
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", d.Year(), (int(d.Month())-1)/3+1)
	case Yearly:
		return fmt.Sprintf("%04d", d.Year())
	default:
		return d.MonthKey()
	}
}

// PeriodPoint holds the income and expense totals of one period bucket.
type PeriodPoint struct {
	Period  string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (p PeriodPoint) Net() decimal.Decimal {
	return p.Income.Sub(p.Expense)
}

// PeriodSeries returns one point per bucket that has records, sorted ascending.
// Buckets without records are omitted.
func PeriodSeries(records []transaction.Transaction, granularity Granularity) []PeriodPoint {
	points := make(map[string]*PeriodPoint)
	for _, r := range records {
		key := granularity.Key(r.Date)
		p, ok := points[key]
		if !ok {
			p = &PeriodPoint{Period: key, Income: decimal.Zero, Expense: decimal.Zero}
			points[key] = p
		}
		p.add(r)
	}
	series := make([]PeriodPoint, 0, len(points))
	for _, p := range points {
		series = append(series, *p)
	}
	slices.SortFunc(series, func(a, b PeriodPoint) int { return strings.Compare(a.Period, b.Period) })
	return series
}

// ZeroFilledSeries returns one monthly point for every month from from to to,
// both inclusive, each exactly once. Records outside the window are ignored.
func ZeroFilledSeries(records []transaction.Transaction, from, to date.Date) []PeriodPoint {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return []PeriodPoint{}
	}
	var series []PeriodPoint
	index := make(map[string]int)
	last := to.FirstOfMonth()
	for m := from.FirstOfMonth(); !m.After(last); m = m.AddMonths(1) {
		index[m.MonthKey()] = len(series)
		series = append(series, PeriodPoint{Period: m.MonthKey(), Income: decimal.Zero, Expense: decimal.Zero})
	}
	for _, r := range records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		series[index[r.Date.MonthKey()]].add(r)
	}
	return series
}

func (p *PeriodPoint) add(r transaction.Transaction) {
	switch r.Kind {
	case transaction.Income:
		p.Income = p.Income.Add(r.Amount)
	case transaction.Expense:
		p.Expense = p.Expense.Add(r.Amount)
	}
}
