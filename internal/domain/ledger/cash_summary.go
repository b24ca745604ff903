package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/domain/shared/valueobject"
)

// Shift numbers run 1 through 4; a location closes its register at most once
// per (business day, shift).
const (
	MinShiftNumber = 1
	MaxShiftNumber = 4
)

// CashSummaryInput carries the raw register counts submitted at shift close.
// All monetary fields are rounded to cent precision before any arithmetic.
type CashSummaryInput struct {
	LocationID           uuid.UUID
	ExpectedCloseoutCash decimal.Decimal
	StartingRegisterCash decimal.Decimal
	OnlineTipsToast      decimal.Decimal
	OnlineTipsKiosk      decimal.Decimal
	OnlineTipCash        decimal.Decimal
	RemovalAmount        decimal.Decimal
	RemovalItemCount     int
	Discounts            decimal.Decimal
	ShiftNumber          int
	BusinessDateTime     time.Time
}

// Validate checks shape and ranges. Monetary inputs must be non-negative;
// the signed outcome only ever appears in the derived OwedToSafe.
func (in CashSummaryInput) Validate() error {
	if in.LocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Location ID is required")
	}
	if in.ExpectedCloseoutCash.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Expected closeout cash cannot be negative")
	}
	if in.StartingRegisterCash.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Starting register cash cannot be negative")
	}
	if in.OnlineTipsToast.IsNegative() || in.OnlineTipsKiosk.IsNegative() || in.OnlineTipCash.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Online tip amounts cannot be negative")
	}
	if in.RemovalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Removal amount cannot be negative")
	}
	if in.RemovalItemCount < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Removal item count cannot be negative")
	}
	if in.Discounts.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discounts cannot be negative")
	}
	if in.ShiftNumber < MinShiftNumber || in.ShiftNumber > MaxShiftNumber {
		return shared.NewDomainError("INVALID_INPUT", "Shift number must be between 1 and 4")
	}
	if in.BusinessDateTime.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Business date/time is required")
	}
	return nil
}

// CashSummary is the shift-close reconciliation record. One exists per
// (location, business day, shift number) - enforced by a storage-level
// unique index, not just the application pre-check. Created exactly once;
// never updated or deleted in normal operation.
type CashSummary struct {
	shared.BaseEntity
	LocationID           uuid.UUID
	ExpectedCloseoutCash decimal.Decimal
	StartingRegisterCash decimal.Decimal
	OnlineTipsToast      decimal.Decimal
	OnlineTipsKiosk      decimal.Decimal
	OnlineTipCash        decimal.Decimal
	TotalTipDeduction    decimal.Decimal
	OwedToSafe           decimal.Decimal // signed: positive = credit to safe, negative = safe covers shortfall
	RemovalAmount        decimal.Decimal
	RemovalItemCount     int
	Discounts            decimal.Decimal
	ShiftNumber          int
	BusinessDateTime     time.Time
	CreatedBy            uuid.UUID
}

// NewCashSummary validates the input and computes the derived amounts:
//
//	totalTipDeduction = toast + kiosk + cash tips
//	owedToSafe        = closeout - starting - totalTipDeduction
//
// owedToSafe is deliberately not clamped at zero - a negative value is a
// legitimate outcome meaning the safe must fund the shortfall.
func NewCashSummary(in CashSummaryInput, createdBy uuid.UUID) (*CashSummary, error) {
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Acting principal ID cannot be empty")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	closeout := valueobject.Round2(in.ExpectedCloseoutCash)
	starting := valueobject.Round2(in.StartingRegisterCash)
	tipsToast := valueobject.Round2(in.OnlineTipsToast)
	tipsKiosk := valueobject.Round2(in.OnlineTipsKiosk)
	tipsCash := valueobject.Round2(in.OnlineTipCash)

	totalTips := valueobject.Round2(tipsToast.Add(tipsKiosk).Add(tipsCash))
	owed := valueobject.Round2(closeout.Sub(starting).Sub(totalTips))

	return &CashSummary{
		BaseEntity:           shared.NewBaseEntity(),
		LocationID:           in.LocationID,
		ExpectedCloseoutCash: closeout,
		StartingRegisterCash: starting,
		OnlineTipsToast:      tipsToast,
		OnlineTipsKiosk:      tipsKiosk,
		OnlineTipCash:        tipsCash,
		TotalTipDeduction:    totalTips,
		OwedToSafe:           owed,
		RemovalAmount:        valueobject.Round2(in.RemovalAmount),
		RemovalItemCount:     in.RemovalItemCount,
		Discounts:            valueobject.Round2(in.Discounts),
		ShiftNumber:          in.ShiftNumber,
		BusinessDateTime:     in.BusinessDateTime,
		CreatedBy:            createdBy,
	}, nil
}

// BusinessDay truncates the business datetime to its UTC calendar day.
// The (location, day, shift) uniqueness key is built on this value.
func (s *CashSummary) BusinessDay() time.Time {
	return BusinessDayOf(s.BusinessDateTime)
}

// BusinessDayOf truncates any timestamp to its UTC calendar day.
func BusinessDayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
