package finance

import (
	"testing"

	"github.com/holdingpro/holding/pkg/aggregation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvDashboardRendererImpl_RenderDashboard(t *testing.T) {
	// given
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	dashboard := Dashboard{
		Currency:  "USD",
		Income:    d(50000),
		Expense:   d(15000),
		Net:       d(35000),
		Valuation: d(175000),
		UnitTotals: []aggregation.UnitSummary{
			{Unit: "Godson", Income: d(50000), Expense: d(0), Net: d(50000), Valuation: d(250000)},
			{Unit: "Prifa", Income: d(0), Expense: d(15000), Net: d(-15000), Valuation: d(0)},
		},
		Trend: []aggregation.PeriodPoint{
			{Period: "2026-01", Income: d(50000), Expense: d(15000)},
		},
		Upcoming: Upcoming{Series: []aggregation.PeriodPoint{
			{Period: "2026-01", Income: d(50000), Expense: d(15000)},
			{Period: "2026-02", Income: d(0), Expense: d(0)},
		}},
	}
	renderer := NewCsvDashboardRenderer()

	// when
	csv, err := renderer.RenderDashboard(dashboard)

	// then
	require.NoError(t, err)
	expected := "Unit,Income,Expense,Net,Valuation\n" +
		"Godson,\"$50,000.00\",$0.00,\"$50,000.00\",\"$250,000.00\"\n" +
		"Prifa,$0.00,\"$15,000.00\",\"-$15,000.00\",$0.00\n" +
		"SUM,\"$50,000.00\",\"$15,000.00\",\"$35,000.00\",\"$175,000.00\"\n" +
		"\n" +
		"Period,Income,Expense,Net\n" +
		"2026-01,\"$50,000.00\",\"$15,000.00\",\"$35,000.00\"\n" +
		"\n" +
		"Upcoming,Income,Expense,Net\n" +
		"2026-01,\"$50,000.00\",\"$15,000.00\",\"$35,000.00\"\n" +
		"2026-02,$0.00,$0.00,$0.00\n"
	assert.Equal(t, expected, csv)
}
