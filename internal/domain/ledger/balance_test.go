package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSafeBalance(t *testing.T) {
	t.Run("starts at zero with version 1", func(t *testing.T) {
		locationID := uuid.New()
		b, err := NewSafeBalance(locationID)
		require.NoError(t, err)

		assert.Equal(t, locationID, b.LocationID)
		assert.True(t, b.Value.IsZero())
		assert.Equal(t, 1, b.Version)
	})

	t.Run("rejects empty location", func(t *testing.T) {
		_, err := NewSafeBalance(uuid.Nil)
		assert.Error(t, err)
	})
}

func TestSafeBalanceApplyDelta(t *testing.T) {
	actor := uuid.New()

	t.Run("credit increases value and bumps version", func(t *testing.T) {
		b, _ := NewSafeBalance(uuid.New())
		b.ApplyDelta(decimal.NewFromFloat(315), actor)

		assert.Equal(t, "315.00", b.Value.StringFixed(2))
		assert.Equal(t, 2, b.Version)
		assert.Equal(t, actor, b.UpdatedBy)
	})

	t.Run("debit decreases value", func(t *testing.T) {
		b, _ := NewSafeBalance(uuid.New())
		b.ApplyDelta(decimal.NewFromFloat(500), actor)
		b.ApplyDelta(decimal.NewFromFloat(-50), actor)

		assert.Equal(t, "450.00", b.Value.StringFixed(2))
		assert.Equal(t, 3, b.Version)
	})

	t.Run("negative result is not rejected here", func(t *testing.T) {
		b, _ := NewSafeBalance(uuid.New())
		b.ApplyDelta(decimal.NewFromFloat(-50), actor)

		assert.Equal(t, "-50.00", b.Value.StringFixed(2))
	})

	t.Run("result is rounded to cents", func(t *testing.T) {
		b, _ := NewSafeBalance(uuid.New())
		b.ApplyDelta(decimal.RequireFromString("10.005"), actor)

		assert.Equal(t, "10.01", b.Value.StringFixed(2))
	})
}

func TestSafeBalanceResetToZero(t *testing.T) {
	actor := uuid.New()
	b, _ := NewSafeBalance(uuid.New())
	b.ApplyDelta(decimal.NewFromFloat(450), actor)

	cleared := b.ResetToZero(actor)

	assert.Equal(t, "450.00", cleared.StringFixed(2))
	assert.True(t, b.Value.IsZero())
	assert.Equal(t, 3, b.Version)
}

func TestSafeBalanceCanCover(t *testing.T) {
	b, _ := NewSafeBalance(uuid.New())
	b.ApplyDelta(decimal.NewFromFloat(20), uuid.New())

	assert.True(t, b.CanCover(decimal.NewFromFloat(20)))
	assert.True(t, b.CanCover(decimal.NewFromFloat(19.99)))
	assert.False(t, b.CanCover(decimal.NewFromFloat(50)))
}
