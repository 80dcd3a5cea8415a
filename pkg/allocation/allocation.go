// Package allocation splits a shared cost across units by percentage weights.
package allocation

import (
	"strings"

	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Weight struct {
	Unit    transaction.Unit
	Percent decimal.Decimal
}

// Policy is an ordered list of target units and their percentage weights.
type Policy []Weight

// Share is the part of the total allocated to one unit.
type Share struct {
	Unit    transaction.Unit
	Percent decimal.Decimal
	Amount  decimal.Decimal
}

// Sum returns the total of the policy weights.
func (p Policy) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, w := range p {
		sum = sum.Add(w.Percent)
	}
	return sum
}

// Validate checks that every weight lies in [0, 100], that no unit is listed
// twice and that the weights sum to exactly 100.
func (p Policy) Validate() error {
	if len(p) == 0 {
		return transaction.NewValidationError("weights", "must name at least one unit")
	}
	seen := make(map[transaction.Unit]struct{}, len(p))
	for _, w := range p {
		if strings.TrimSpace(string(w.Unit)) == "" {
			return transaction.NewValidationError("weights", "unit must not be empty")
		}
		if _, ok := seen[w.Unit]; ok {
			return transaction.NewValidationError("weights", "unit %q listed more than once", w.Unit)
		}
		seen[w.Unit] = struct{}{}
		if w.Percent.IsNegative() || w.Percent.GreaterThan(hundred) {
			return transaction.NewValidationError("weights", "weight of %q must be between 0 and 100, got %s", w.Unit, w.Percent.String())
		}
	}
	if sum := p.Sum(); !sum.Equal(hundred) {
		return transaction.NewValidationError("weights", "must sum to exactly 100, got %s", sum.String())
	}
	return nil
}

// Allocate splits total across the policy units. Each unit receives
// total * weight / 100, computed exactly, so the shares add up to total.
// Units with a zero weight are left out of the result. On error no share is returned.
func Allocate(total decimal.Decimal, policy Policy) ([]Share, error) {
	if total.IsNegative() {
		return nil, transaction.NewValidationError("amount", "must not be negative, got %s", total.String())
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	shares := make([]Share, 0, len(policy))
	for _, w := range policy {
		if w.Percent.IsZero() {
			continue
		}
		shares = append(shares, Share{
			Unit:    w.Unit,
			Percent: w.Percent,
			Amount:  total.Mul(w.Percent).Shift(-2),
		})
	}
	return shares, nil
}
