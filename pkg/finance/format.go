package finance

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// FormatAmount renders amount in currency for display, rounded half away from
// zero to the currency's minor unit. Stored amounts are never rounded. Amounts
// too large for go-money are written as a fixed point number and the currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}
	minor := amount.Shift(int32(fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return amount.StringFixed(int32(fraction)) + " " + currency
	}
	return money.New(minor.IntPart(), currency).Display()
}
