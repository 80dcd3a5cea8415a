package ledger

import (
	"slices"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
)

// Predicate selects records in a query.
type Predicate func(transaction.Transaction) bool

// All matches every record.
func All(transaction.Transaction) bool { return true }

// And matches records accepted by every predicate. Nil predicates are ignored.
func And(predicates ...Predicate) Predicate {
	return func(t transaction.Transaction) bool {
		for _, p := range predicates {
			if p != nil && !p(t) {
				return false
			}
		}
		return true
	}
}

// ByUnits matches records of any of the units. No units matches everything.
func ByUnits(units ...transaction.Unit) Predicate {
	if len(units) == 0 {
		return All
	}
	return func(t transaction.Transaction) bool {
		return slices.Contains(units, t.Unit)
	}
}

func ByKind(kind transaction.Kind) Predicate {
	return func(t transaction.Transaction) bool { return t.Kind == kind }
}

func ByStatus(status transaction.Status) Predicate {
	return func(t transaction.Transaction) bool { return t.EffectiveStatus() == status }
}

// Between matches records dated within [from, to]. A zero bound is open.
func Between(from, to date.Date) Predicate {
	return func(t transaction.Transaction) bool {
		if !from.IsZero() && t.Date.Before(from) {
			return false
		}
		if !to.IsZero() && t.Date.After(to) {
			return false
		}
		return true
	}
}
