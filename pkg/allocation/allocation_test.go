package allocation

import (
	"testing"

	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func policyOf(weights ...any) Policy {
	policy := Policy{}
	for i := 0; i < len(weights); i += 2 {
		policy = append(policy, Weight{
			Unit:    transaction.Unit(weights[i].(string)),
			Percent: decimal.RequireFromString(weights[i+1].(string)),
		})
	}
	return policy
}

func sumOf(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestAllocate(t *testing.T) {
	t.Run("should split the time cost 33/33/34", func(t *testing.T) {
		// given
		policy := policyOf("Godson", "33", "Fynix", "33", "Prifa", "34")

		// when
		shares, err := Allocate(decimal.NewFromInt(9000), policy)

		// then
		require.NoError(t, err)
		require.Len(t, shares, 3)
		assert.Equal(t, transaction.Unit("Godson"), shares[0].Unit)
		assert.True(t, shares[0].Amount.Equal(decimal.NewFromInt(2970)), shares[0].Amount.String())
		assert.True(t, shares[1].Amount.Equal(decimal.NewFromInt(2970)), shares[1].Amount.String())
		assert.True(t, shares[2].Amount.Equal(decimal.NewFromInt(3060)), shares[2].Amount.String())
		assert.True(t, sumOf(shares).Equal(decimal.NewFromInt(9000)))
	})

	t.Run("should preserve the total for awkward amounts and weights", func(t *testing.T) {
		totals := []string{"0", "0.01", "1", "100.03", "9999.99", "12345.6789", "1000000"}
		policies := []Policy{
			policyOf("A", "100"),
			policyOf("A", "33.33", "B", "33.33", "C", "33.34"),
			policyOf("A", "12.5", "B", "87.5"),
			policyOf("A", "1", "B", "2", "C", "3", "D", "94"),
			policyOf("A", "0.001", "B", "99.999"),
		}
		for _, total := range totals {
			for _, policy := range policies {
				amount := decimal.RequireFromString(total)
				shares, err := Allocate(amount, policy)
				require.NoError(t, err)
				assert.True(t, sumOf(shares).Equal(amount), "total %s policy %v", total, policy)
			}
		}
	})

	t.Run("should omit units with a zero weight", func(t *testing.T) {
		shares, err := Allocate(decimal.NewFromInt(500), policyOf("A", "0", "B", "100"))

		require.NoError(t, err)
		require.Len(t, shares, 1)
		assert.Equal(t, transaction.Unit("B"), shares[0].Unit)
	})

	t.Run("should reject weights that do not sum to 100 and name the sum", func(t *testing.T) {
		for _, policy := range []Policy{
			policyOf("A", "33", "B", "33", "C", "33"),
			policyOf("A", "50", "B", "51"),
			policyOf("A", "99.99"),
		} {
			shares, err := Allocate(decimal.NewFromInt(9000), policy)

			assert.Nil(t, shares)
			require.True(t, transaction.IsValidation(err))
			assert.Contains(t, err.Error(), "got "+policy.Sum().String())
		}
	})

	t.Run("should reject weights outside 0..100", func(t *testing.T) {
		_, err := Allocate(decimal.NewFromInt(10), policyOf("A", "-10", "B", "110"))

		assert.True(t, transaction.IsValidation(err))
		assert.Contains(t, err.Error(), "between 0 and 100")
	})

	t.Run("should reject duplicate units", func(t *testing.T) {
		_, err := Allocate(decimal.NewFromInt(10), policyOf("A", "50", "A", "50"))

		assert.True(t, transaction.IsValidation(err))
	})

	t.Run("should reject an empty policy and a negative total", func(t *testing.T) {
		_, err := Allocate(decimal.NewFromInt(10), Policy{})
		assert.True(t, transaction.IsValidation(err))

		_, err = Allocate(decimal.NewFromInt(-10), policyOf("A", "100"))
		assert.True(t, transaction.IsValidation(err))
	})
}
