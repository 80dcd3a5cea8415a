package ledger

import (
	"context"
	"testing"

	"github.com/holdingpro/holding/internal/test_utils"
	"github.com/holdingpro/holding/pkg/date"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteRepository(t *testing.T) (context.Context, *SQLiteRepository) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewSQLiteRepository(db)
}

func TestSQLiteRepository(t *testing.T) {
	t.Run("should store and load records in insertion order", func(t *testing.T) {
		// given
		ctx, repo := setupSQLiteRepository(t)
		batch := []transaction.Transaction{
			{Id: "1", Unit: "Godson", Kind: transaction.Income, Category: "Sales", Amount: decimal.RequireFromString("50000.55"), Date: date.MustParse("2026-01-01")},
			{Id: "2", Unit: "Prifa", Kind: transaction.Expense, Category: "Stock", Amount: decimal.NewFromInt(15000), Date: date.MustParse("2025-12-31"), Status: transaction.Pending, Note: "beans"},
		}

		// when
		err := repo.AppendBatch(ctx, "s", batch)
		require.NoError(t, err)
		loaded, err := repo.Load(ctx, "s")

		// then
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "1", loaded[0].Id)
		assert.True(t, loaded[0].Amount.Equal(batch[0].Amount))
		assert.Equal(t, batch[1].Date, loaded[1].Date)
		assert.Equal(t, transaction.Pending, loaded[1].Status)
		assert.Equal(t, "beans", loaded[1].Note)
	})

	t.Run("should store nothing when the batch fails", func(t *testing.T) {
		// given
		ctx, repo := setupSQLiteRepository(t)
		batch := []transaction.Transaction{
			{Id: "dup", Unit: "Godson", Kind: transaction.Income, Category: "Sales", Amount: decimal.NewFromInt(1), Date: date.MustParse("2026-01-01")},
			{Id: "dup", Unit: "Godson", Kind: transaction.Income, Category: "Sales", Amount: decimal.NewFromInt(1), Date: date.MustParse("2026-01-01")},
		}

		// when
		err := repo.AppendBatch(ctx, "s", batch)

		// then
		assert.Error(t, err)
		loaded, err := repo.Load(ctx, "s")
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("should reset only the given session", func(t *testing.T) {
		ctx, repo := setupSQLiteRepository(t)
		one := transaction.Transaction{Unit: "Godson", Kind: transaction.Income, Category: "Sales", Amount: decimal.NewFromInt(1), Date: date.MustParse("2026-01-01")}
		a, b := one, one
		a.Id, b.Id = "a", "b"
		require.NoError(t, repo.AppendBatch(ctx, "s1", []transaction.Transaction{a}))
		require.NoError(t, repo.AppendBatch(ctx, "s2", []transaction.Transaction{b}))

		require.NoError(t, repo.Reset(ctx, "s1"))

		s1, _ := repo.Load(ctx, "s1")
		s2, _ := repo.Load(ctx, "s2")
		assert.Empty(t, s1)
		assert.Len(t, s2, 1)
	})

	t.Run("should back a session registry", func(t *testing.T) {
		ctx, repo := setupSQLiteRepository(t)
		sessions := NewSessions(testCatalog(), repo)
		_, err := sessions.Append(ctx, "s", record("Godson", transaction.Income, "Sales", 7, "2026-05-05"))
		require.NoError(t, err)

		records, err := NewSessions(testCatalog(), repo).Query(ctx, "s", All)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(7)))
	})
}
