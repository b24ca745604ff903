package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/domain/shared/valueobject"
)

// SafeBalance is the single running cash total held in the safe at one
// location. Exactly one row exists per location (unique index on
// location_id); rows are created lazily on first access so a location can be
// onboarded before any money moves.
//
// The balance is mutated only through ApplyDelta and ResetToZero, and only
// inside the ledger unit of work together with the matching SafeTransaction.
type SafeBalance struct {
	shared.BaseAggregateRoot
	LocationID uuid.UUID
	Value      decimal.Decimal
	UpdatedBy  uuid.UUID
}

// NewSafeBalance creates a zero-valued balance for a location.
func NewSafeBalance(locationID uuid.UUID) (*SafeBalance, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &SafeBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LocationID:        locationID,
		Value:             decimal.Zero,
	}, nil
}

// ApplyDelta adds a signed amount to the balance. Negative results are not
// rejected here; the sufficiency policy belongs to the calling service so it
// lives in exactly one place.
func (b *SafeBalance) ApplyDelta(amount decimal.Decimal, actorID uuid.UUID) {
	b.Value = valueobject.Round2(b.Value.Add(amount))
	b.UpdatedBy = actorID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// ResetToZero clears the balance and returns the amount that was held.
func (b *SafeBalance) ResetToZero(actorID uuid.UUID) decimal.Decimal {
	cleared := b.Value
	b.Value = decimal.Zero
	b.UpdatedBy = actorID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return cleared
}

// CanCover reports whether the balance can absorb a debit of the given
// (positive) magnitude without going negative.
func (b *SafeBalance) CanCover(amount decimal.Decimal) bool {
	return b.Value.GreaterThanOrEqual(amount)
}
