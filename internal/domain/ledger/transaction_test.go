package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSafeTransaction(t *testing.T) {
	locationID := uuid.New()
	actorID := uuid.New()
	businessDate := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("positive amount becomes credit", func(t *testing.T) {
		tx, err := NewSafeTransaction(locationID, decimal.NewFromFloat(315), DescriptionShiftReconciliation, actorID, businessDate)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeCredit, tx.Type)
		assert.Equal(t, "315.00", tx.Amount.StringFixed(2))
		assert.Equal(t, DescriptionShiftReconciliation, tx.Description)
	})

	t.Run("negative amount becomes debit", func(t *testing.T) {
		tx, err := NewSafeTransaction(locationID, decimal.NewFromFloat(-50), DescriptionShiftReconciliation, actorID, businessDate)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeDebit, tx.Type)
		assert.Equal(t, "-50.00", tx.Amount.StringFixed(2))
	})

	t.Run("zero amount is a credit", func(t *testing.T) {
		tx, err := NewSafeTransaction(locationID, decimal.Zero, DescriptionShiftReconciliation, actorID, businessDate)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeCredit, tx.Type)
	})

	t.Run("amount is rounded to cents", func(t *testing.T) {
		tx, err := NewSafeTransaction(locationID, decimal.RequireFromString("99.999"), DescriptionDepositToBank, actorID, businessDate)
		require.NoError(t, err)

		assert.Equal(t, "100.00", tx.Amount.StringFixed(2))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := NewSafeTransaction(uuid.Nil, decimal.NewFromInt(1), "x", actorID, businessDate)
		assert.Error(t, err)

		_, err = NewSafeTransaction(locationID, decimal.NewFromInt(1), "x", uuid.Nil, businessDate)
		assert.Error(t, err)

		_, err = NewSafeTransaction(locationID, decimal.NewFromInt(1), "", actorID, businessDate)
		assert.Error(t, err)

		_, err = NewSafeTransaction(locationID, decimal.NewFromInt(1), "x", actorID, time.Time{})
		assert.Error(t, err)
	})
}

func TestTransactionTypeIsValid(t *testing.T) {
	assert.True(t, TransactionTypeCredit.IsValid())
	assert.True(t, TransactionTypeDebit.IsValid())
	assert.False(t, TransactionType("TRANSFER").IsValid())
}
