package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/shared"
)

// SafeBalanceRepository persists the one-row-per-location balance.
type SafeBalanceRepository interface {
	// GetOrCreate returns the balance for the location, creating a
	// zero-valued row on first access. Locations may be onboarded before any
	// financial activity occurs, so a missing row is not an error.
	GetOrCreate(ctx context.Context, locationID uuid.UUID) (*SafeBalance, error)

	// SaveWithLock writes the balance conditioned on its previous version.
	// Returns shared.ErrConcurrencyConflict if another writer got there
	// first; callers retry with a fresh read.
	SaveWithLock(ctx context.Context, balance *SafeBalance) error
}

// SafeTransactionRepository persists the append-only ledger history.
type SafeTransactionRepository interface {
	Create(ctx context.Context, tx *SafeTransaction) error

	// ListForLocation returns a page of ledger entries for the location plus
	// the unfiltered total, ordered by business date per filter.Sort.
	ListForLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]*SafeTransaction, int64, error)

	// SumForLocation folds the signed amounts of every entry for a location.
	// Used to audit the conservation invariant against the balance row.
	SumForLocation(ctx context.Context, locationID uuid.UUID) (decimal.Decimal, error)
}

// CashSummaryRepository persists shift-close reconciliation records.
type CashSummaryRepository interface {
	// Create inserts the summary. The storage layer carries a unique index
	// on (location, business day, shift); a violation surfaces as
	// shared.ErrDuplicateShift so the pre-check race is closed at the
	// database.
	Create(ctx context.Context, summary *CashSummary) error

	// ExistsForShift reports whether a summary already exists for the
	// (location, business day, shift) triple.
	ExistsForShift(ctx context.Context, locationID uuid.UUID, businessDay time.Time, shiftNumber int) (bool, error)

	// ListForLocation returns a page of summaries for the location plus the
	// unfiltered total.
	ListForLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]*CashSummary, int64, error)
}

// Repositories bundles the ledger stores participating in one atomic unit.
type Repositories struct {
	Balances     SafeBalanceRepository
	Transactions SafeTransactionRepository
	Summaries    CashSummaryRepository
}

// UnitOfWork executes a function with repositories bound to a single storage
// transaction. Either every write inside fn commits or none do; a record
// created without its balance mutation (or vice versa) is a correctness bug,
// not a degraded state.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
