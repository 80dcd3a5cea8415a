package aggregation

import (
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

// UnitSummary is the profit overview of a single unit.
type UnitSummary struct {
	Unit              transaction.Unit
	Income            decimal.Decimal
	Expense           decimal.Decimal
	Net               decimal.Decimal
	Valuation         decimal.Decimal
	ExpenseCategories []Group
	Count             int
}

// UnitSummaries returns a summary for each of units, in the given order, also
// for units without records.
func UnitSummaries(records []transaction.Transaction, units []transaction.Unit, multiplier decimal.Decimal) []UnitSummary {
	perUnit := make(map[transaction.Unit][]transaction.Transaction, len(units))
	for _, r := range records {
		perUnit[r.Unit] = append(perUnit[r.Unit], r)
	}
	summaries := make([]UnitSummary, 0, len(units))
	for _, u := range units {
		own := perUnit[u]
		summaries = append(summaries, UnitSummary{
			Unit:              u,
			Income:            Total(own, transaction.Income),
			Expense:           Total(own, transaction.Expense),
			Net:               Net(own),
			Valuation:         ValuationEstimate(own, multiplier),
			ExpenseCategories: ByCategory(Filter(own, transaction.Expense)),
			Count:             len(own),
		})
	}
	return summaries
}

// KindNode is one kind of a unit with its per category totals.
type KindNode struct {
	Kind       transaction.Kind
	Total      decimal.Decimal
	Categories []Group
}

// UnitNode is the root of a unit → kind → category breakdown.
type UnitNode struct {
	Unit  transaction.Unit
	Total decimal.Decimal
	Kinds []KindNode
}

// Hierarchy breaks records down by unit, then kind, then category. Every level
// keeps first appearance order. A unit total is the sum of all its amounts.
func Hierarchy(records []transaction.Transaction) []UnitNode {
	nodes := make([]UnitNode, 0)
	for _, unitGroup := range ByUnit(records) {
		unit := transaction.Unit(unitGroup.Key)
		own := make([]transaction.Transaction, 0, unitGroup.Count)
		for _, r := range records {
			if r.Unit == unit {
				own = append(own, r)
			}
		}
		node := UnitNode{Unit: unit, Total: unitGroup.Total}
		for _, kindGroup := range ByKind(own) {
			kind := transaction.Kind(kindGroup.Key)
			node.Kinds = append(node.Kinds, KindNode{
				Kind:       kind,
				Total:      kindGroup.Total,
				Categories: ByCategory(Filter(own, kind)),
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}
