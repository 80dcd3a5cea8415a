package finance

import (
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
)

// DemoRecords are the sample rows a new session starts with when demo seeding is on.
func DemoRecords() []transaction.Transaction {
	return []transaction.Transaction{
		{
			Unit:     "Godson Teknoloji",
			Kind:     transaction.Income,
			Category: "Yazılım Satış",
			Amount:   decimal.NewFromInt(50000),
			Date:     date.New(2026, 1, 1),
			Status:   transaction.Realized,
		},
		{
			Unit:     "Prifa Kahvecilik",
			Kind:     transaction.Expense,
			Category: "Hammadde",
			Amount:   decimal.NewFromInt(15000),
			Date:     date.New(2026, 1, 2),
			Status:   transaction.Realized,
		},
	}
}
