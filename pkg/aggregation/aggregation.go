// Package aggregation derives totals, groupings, trend series and valuation
// estimates from a queried subset of the ledger. All functions are pure.
package aggregation

import (
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

// Group is the summed amount of the records sharing Key.
type Group struct {
	Key   string
	Total decimal.Decimal
	Count int
}

// Total sums the amounts of records of the given kind. It is 0 for no records.
func Total(records []transaction.Transaction, kind transaction.Kind) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		if r.Kind == kind {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}

// Net is income minus expense.
func Net(records []transaction.Transaction) decimal.Decimal {
	return Total(records, transaction.Income).Sub(Total(records, transaction.Expense))
}

// GroupBy sums amounts per key. Groups are ordered by the first appearance of
// their key in records; no records give no groups.
func GroupBy(records []transaction.Transaction, key func(transaction.Transaction) string) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(r.Amount)
		groups[i].Count++
	}
	return groups
}

func ByUnit(records []transaction.Transaction) []Group {
	return GroupBy(records, func(t transaction.Transaction) string { return string(t.Unit) })
}

func ByKind(records []transaction.Transaction) []Group {
	return GroupBy(records, func(t transaction.Transaction) string { return string(t.Kind) })
}

func ByCategory(records []transaction.Transaction) []Group {
	return GroupBy(records, func(t transaction.Transaction) string { return t.Category })
}

// ByPeriod groups records by their period bucket, in first appearance order.
// Use PeriodSeries for a chronologically sorted trend.
func ByPeriod(records []transaction.Transaction, granularity Granularity) []Group {
	return GroupBy(records, func(t transaction.Transaction) string { return granularity.Key(t.Date) })
}

// Filter returns the records of the given kind.
func Filter(records []transaction.Transaction, kind transaction.Kind) []transaction.Transaction {
	filtered := make([]transaction.Transaction, 0, len(records))
	for _, r := range records {
		if r.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
