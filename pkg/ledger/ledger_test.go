package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() transaction.Catalog {
	return transaction.Catalog{
		Units:        []transaction.Unit{"Godson", "Fynix", "Prifa", "Personal"},
		PersonalUnit: "Personal",
	}
}

func record(unit string, kind transaction.Kind, category string, amount int64, day string) transaction.Transaction {
	return transaction.Transaction{
		Unit:     transaction.Unit(unit),
		Kind:     kind,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     date.MustParse(day),
	}
}

func TestLedger_Append(t *testing.T) {
	t.Run("should append records in order and assign ids", func(t *testing.T) {
		// given
		l := New(testCatalog())

		// when
		appended, err := l.Append(
			record("Godson", transaction.Income, "Sales", 50000, "2026-01-01"),
			record("Prifa", transaction.Expense, "Stock", 15000, "2026-01-02"),
		)

		// then
		require.NoError(t, err)
		require.Len(t, appended, 2)
		assert.NotEmpty(t, appended[0].Id)
		assert.NotEqual(t, appended[0].Id, appended[1].Id)
		stored := l.Query(All)
		assert.Equal(t, appended, stored)
	})

	t.Run("should keep duplicates", func(t *testing.T) {
		l := New(testCatalog())
		r := record("Godson", transaction.Income, "Sales", 10, "2026-01-01")

		_, err := l.Append(r, r)

		require.NoError(t, err)
		assert.Equal(t, 2, l.Len())
	})

	t.Run("should reject the whole batch when one record is invalid", func(t *testing.T) {
		// given
		l := New(testCatalog())
		_, err := l.Append(record("Godson", transaction.Income, "Sales", 10, "2026-01-01"))
		require.NoError(t, err)

		// when
		_, err = l.Append(
			record("Fynix", transaction.Expense, "Rent", 10, "2026-01-01"),
			record("Unknown", transaction.Expense, "Rent", 10, "2026-01-01"),
		)

		// then
		require.True(t, transaction.IsValidation(err))
		assert.Contains(t, err.Error(), "record 2 of 2")
		assert.Equal(t, 1, l.Len())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		l := New(testCatalog())

		_, err := l.Append(record("Godson", transaction.Expense, "Rent", -1, "2026-01-01"))

		var ve *transaction.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "amount", ve.Field)
		assert.Zero(t, l.Len())
	})

	t.Run("should not lose records under concurrent appends", func(t *testing.T) {
		// given
		l := New(testCatalog())
		workers, batches := 8, 50

		// when
		var wg sync.WaitGroup
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range batches {
					_, err := l.Append(
						record("Godson", transaction.Income, fmt.Sprintf("w%d", w), int64(i), "2026-01-01"),
						record("Fynix", transaction.Expense, fmt.Sprintf("w%d", w), int64(i), "2026-01-01"),
					)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		// then
		records := l.Query(All)
		require.Len(t, records, workers*batches*2)
		// batches stay contiguous
		for i := 0; i < len(records); i += 2 {
			assert.Equal(t, records[i].Category, records[i+1].Category)
			assert.True(t, records[i].Amount.Equal(records[i+1].Amount))
		}
	})
}

func TestLedger_Query(t *testing.T) {
	l := New(testCatalog())
	_, err := l.Append(
		record("Godson", transaction.Income, "Sales", 100, "2026-01-10"),
		record("Fynix", transaction.Expense, "Rent", 40, "2026-02-15"),
		record("Prifa", transaction.Expense, "Stock", 30, "2026-03-01"),
		record("Godson", transaction.Expense, "Rent", 20, "2026-04-01"),
	)
	require.NoError(t, err)

	t.Run("should filter by unit keeping insertion order", func(t *testing.T) {
		got := l.Query(ByUnits("Godson"))

		require.Len(t, got, 2)
		assert.Equal(t, "Sales", got[0].Category)
		assert.Equal(t, "Rent", got[1].Category)
	})

	t.Run("should match everything with no units", func(t *testing.T) {
		assert.Len(t, l.Query(ByUnits()), 4)
		assert.Len(t, l.Query(nil), 4)
	})

	t.Run("should combine predicates", func(t *testing.T) {
		got := l.Query(And(
			ByKind(transaction.Expense),
			Between(date.MustParse("2026-02-01"), date.MustParse("2026-03-31")),
		))

		require.Len(t, got, 2)
		assert.Equal(t, transaction.Unit("Fynix"), got[0].Unit)
		assert.Equal(t, transaction.Unit("Prifa"), got[1].Unit)
	})

	t.Run("should treat zero bounds as open", func(t *testing.T) {
		assert.Len(t, l.Query(Between(date.Date{}, date.MustParse("2026-02-15"))), 2)
		assert.Len(t, l.Query(Between(date.MustParse("2026-02-15"), date.Date{})), 3)
	})

	t.Run("should filter by effective status", func(t *testing.T) {
		assert.Len(t, l.Query(ByStatus(transaction.Realized)), 4)
		assert.Empty(t, l.Query(ByStatus(transaction.Pending)))
	})

	t.Run("should return copies", func(t *testing.T) {
		got := l.Query(All)
		got[0].Category = "changed"

		assert.Equal(t, "Sales", l.Query(All)[0].Category)
	})
}

func TestLedger_Reset(t *testing.T) {
	l := New(testCatalog())
	_, err := l.Append(record("Godson", transaction.Income, "Sales", 100, "2026-01-10"))
	require.NoError(t, err)

	l.Reset()

	assert.Zero(t, l.Len())
	assert.Empty(t, l.Query(All))
}
