package transaction

import (
	"errors"
	"strings"
	"testing"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		Unit:     "Godson Teknoloji",
		Kind:     Income,
		Category: "Yazılım Satış",
		Amount:   decimal.NewFromInt(50000),
		Date:     date.MustParse("2026-01-01"),
	}
}

func TestTransaction_Validate(t *testing.T) {
	require.NoError(t, validTransaction().Validate())

	zeroAmount := validTransaction()
	zeroAmount.Amount = decimal.Zero
	assert.NoError(t, zeroAmount.Validate(), "zero amount is allowed")

	tests := []struct {
		name   string
		mutate func(*Transaction)
		field  string
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"empty unit", func(tx *Transaction) { tx.Unit = "  " }, "unit"},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, "category"},
		{"long category", func(tx *Transaction) { tx.Category = strings.Repeat("a", 201) }, "category"},
		{"invalid kind", func(tx *Transaction) { tx.Kind = "transfer" }, "kind"},
		{"missing date", func(tx *Transaction) { tx.Date = date.Date{} }, "date"},
		{"invalid status", func(tx *Transaction) { tx.Status = "cancelled" }, "status"},
		{"long note", func(tx *Transaction) { tx.Note = strings.Repeat("n", 501) }, "note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)

			err := tx.Validate()

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestTransaction_EffectiveStatus(t *testing.T) {
	tx := validTransaction()
	assert.Equal(t, Realized, tx.EffectiveStatus())
	tx.Status = Pending
	assert.Equal(t, Pending, tx.EffectiveStatus())
}

func TestParseKindAndStatus(t *testing.T) {
	kind, err := ParseKind(" Income ")
	require.NoError(t, err)
	assert.Equal(t, Income, kind)

	_, err = ParseKind("gelir")
	assert.True(t, IsValidation(err))

	status, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, Status(""), status)

	_, err = ParseStatus("done")
	assert.True(t, IsValidation(err))
}

func TestCatalog_ResolveUnit(t *testing.T) {
	catalog := DefaultCatalog()

	unit, err := catalog.ResolveUnit("prifa kahvecilik")
	require.NoError(t, err)
	assert.Equal(t, Unit("Prifa Kahvecilik"), unit)

	_, err = catalog.ResolveUnit("Acme")
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "unknown unit")
}

func TestCatalog_Validate(t *testing.T) {
	catalog := DefaultCatalog()
	tx := validTransaction()
	require.NoError(t, catalog.Validate(tx))

	tx.Unit = "Acme"
	assert.True(t, IsValidation(catalog.Validate(tx)))

	strict := DefaultCatalog()
	strict.StrictCategories = true
	tx = validTransaction()
	assert.Error(t, strict.Validate(tx), "category not in the list")
	tx.Category = "Kira"
	assert.NoError(t, strict.Validate(tx))
	tx.Category = DefaultAllocationCategory
	assert.NoError(t, strict.Validate(tx), "allocation label is always accepted")
}

func TestCatalog_BusinessUnits(t *testing.T) {
	units := DefaultCatalog().BusinessUnits()
	assert.Equal(t, []Unit{"Godson Teknoloji", "Fynix Teknoloji", "Prifa Kahvecilik"}, units)
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("weights", "must sum to 100, got %s", "99")
	assert.Equal(t, "validation error: weights must sum to 100, got 99", err.Error())
}
