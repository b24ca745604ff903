package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/telemetry"
)

// DepositService empties a location's safe into a recorded bank deposit.
type DepositService struct {
	uow ledger.UnitOfWork
}

// NewDepositService creates a new DepositService.
func NewDepositService(uow ledger.UnitOfWork) *DepositService {
	return &DepositService{uow: uow}
}

// DepositResult reports the outcome of a bank deposit. DepositedAmount is the
// positive cash amount handed to the bank; Transaction carries the negated
// value, since ledger entries are signed so that their sum equals the balance.
type DepositResult struct {
	Transaction     *ledger.SafeTransaction
	Balance         *ledger.SafeBalance
	DepositedAmount decimal.Decimal
}

// DepositToBank clears the location's entire balance to zero and appends the
// matching "deposit to bank" ledger entry, atomically.
//
// The compare-and-swap on the balance row decides races: of two concurrent
// deposits, exactly one commits against the positive balance; the other
// re-reads zero and fails with NO_FUNDS.
func (s *DepositService) DepositToBank(
	ctx context.Context,
	locationID uuid.UUID,
	principal identity.Principal,
) (*DepositResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "deposit_to_bank")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var result *DepositResult
	var commitErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationDeposit), func(c context.Context) {
		result, commitErr = s.commit(c, locationID, principal)
	})
	if commitErr != nil {
		telemetry.RecordError(span, commitErr)
		return nil, commitErr
	}

	telemetry.AddEvent(span, "safe_deposited",
		"transaction_id", result.Transaction.ID.String(),
		"amount", result.DepositedAmount.String(),
	)
	return result, nil
}

func (s *DepositService) commit(ctx context.Context, locationID uuid.UUID, principal identity.Principal) (*DepositResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		var result *DepositResult
		err := s.uow.Execute(ctx, func(repos ledger.Repositories) error {
			balance, err := repos.Balances.GetOrCreate(ctx, locationID)
			if err != nil {
				return wrapPersistence("failed to load balance", err)
			}
			if !balance.Value.IsPositive() {
				return shared.ErrNoFunds
			}

			cleared := balance.ResetToZero(principal.ID)

			// The history entry carries the negative signed amount so the
			// conservation fold (sum of entries == balance) stays exact.
			entry, err := ledger.NewSafeTransaction(
				locationID,
				cleared.Neg(),
				ledger.DescriptionDepositToBank,
				principal.ID,
				time.Now(),
			)
			if err != nil {
				return err
			}
			if err := repos.Transactions.Create(ctx, entry); err != nil {
				return wrapPersistence("failed to append ledger entry", err)
			}
			if err := repos.Balances.SaveWithLock(ctx, balance); err != nil {
				return err
			}

			result = &DepositResult{
				Transaction:     entry,
				Balance:         balance,
				DepositedAmount: cleared,
			}
			return nil
		})
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, wrapPersistence("balance contention persisted after retries", lastErr)
}
