package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/domain/shared/valueobject"
)

// TransactionType classifies a ledger entry by direction.
type TransactionType string

const (
	// TransactionTypeCredit records cash moving into the safe.
	TransactionTypeCredit TransactionType = "CREDIT"
	// TransactionTypeDebit records the safe funding a shortfall or deposit.
	TransactionTypeDebit TransactionType = "DEBIT"
)

// String returns the string representation of the transaction type.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Well-known ledger entry descriptions.
const (
	DescriptionShiftReconciliation = "shift reconciliation"
	DescriptionDepositToBank       = "deposit to bank"
)

// SafeTransaction is an immutable, append-only record of one balance change.
// The signed Amount folds directly into the conservation invariant: at all
// times the sum of a location's transaction amounts equals its SafeBalance
// value. Corrections are made with new entries, never by editing old ones.
type SafeTransaction struct {
	shared.BaseEntity
	LocationID   uuid.UUID
	Amount       decimal.Decimal // signed; positive = credit, negative = debit
	Type         TransactionType
	Description  string
	ActorID      uuid.UUID
	BusinessDate time.Time
}

// NewSafeTransaction creates a ledger entry for a signed amount. The type is
// derived from the sign so the two can never disagree.
func NewSafeTransaction(
	locationID uuid.UUID,
	amount decimal.Decimal,
	description string,
	actorID uuid.UUID,
	businessDate time.Time,
) (*SafeTransaction, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Acting principal ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if businessDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BUSINESS_DATE", "Business date is required")
	}

	txType := TransactionTypeCredit
	if amount.IsNegative() {
		txType = TransactionTypeDebit
	}

	return &SafeTransaction{
		BaseEntity:   shared.NewBaseEntity(),
		LocationID:   locationID,
		Amount:       valueobject.Round2(amount),
		Type:         txType,
		Description:  description,
		ActorID:      actorID,
		BusinessDate: businessDate,
	}, nil
}
