package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/telemetry"
)

// maxCommitAttempts bounds the optimistic-concurrency retry loop. Contention
// on one location's balance row is rare (one register per location), so a
// small bound is enough; past it the failure surfaces as retryable.
const maxCommitAttempts = 3

// ReconciliationService turns shift-close register counts into a CashSummary
// record and the matching safe-ledger adjustment, committed as one atomic
// unit.
type ReconciliationService struct {
	repos ledger.Repositories
	uow   ledger.UnitOfWork
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(repos ledger.Repositories, uow ledger.UnitOfWork) *ReconciliationService {
	return &ReconciliationService{repos: repos, uow: uow}
}

// ReconcileShift validates the input, computes the signed amount owed to the
// safe, and commits the CashSummary together with the ledger adjustment.
//
// The sufficiency rule lives here and only here: a negative outcome larger
// than the current balance is rejected, so a shift close can never push the
// safe negative. The check runs inside the same transaction that commits the
// balance, so a concurrent writer cannot invalidate it between read and
// write.
func (s *ReconciliationService) ReconcileShift(
	ctx context.Context,
	input ledger.CashSummaryInput,
	principal identity.Principal,
) (*ledger.CashSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "reconcile_shift")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, input.LocationID.String(),
		telemetry.SpanAttrShiftNumber, input.ShiftNumber,
	)

	if err := identity.CheckLocationAccess(principal, input.LocationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary, err := ledger.NewCashSummary(input, principal.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrAmount, summary.OwedToSafe.String())

	// Pre-check gives a friendly error on the common path; the unique index
	// on (location, day, shift) closes the race for the rest.
	exists, err := s.repos.Summaries.ExistsForShift(ctx, summary.LocationID, summary.BusinessDay(), summary.ShiftNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("failed to check for existing summary", err)
	}
	if exists {
		telemetry.RecordError(span, shared.ErrDuplicateShift)
		return nil, shared.ErrDuplicateShift
	}

	var commitErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationReconcile), func(c context.Context) {
		commitErr = s.commit(c, summary, principal)
	})
	if commitErr != nil {
		telemetry.RecordError(span, commitErr)
		return nil, commitErr
	}

	telemetry.AddEvent(span, "shift_reconciled",
		"summary_id", summary.ID.String(),
		"owed_to_safe", summary.OwedToSafe.String(),
	)
	return summary, nil
}

// commit runs the atomic unit with bounded retry on balance-row contention.
func (s *ReconciliationService) commit(ctx context.Context, summary *ledger.CashSummary, principal identity.Principal) error {
	var lastErr error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err := s.uow.Execute(ctx, func(repos ledger.Repositories) error {
			balance, err := repos.Balances.GetOrCreate(ctx, summary.LocationID)
			if err != nil {
				return wrapPersistence("failed to load balance", err)
			}

			if summary.OwedToSafe.IsNegative() && !balance.CanCover(summary.OwedToSafe.Abs()) {
				return shared.ErrInsufficientFunds
			}

			entry, err := ledger.NewSafeTransaction(
				summary.LocationID,
				summary.OwedToSafe,
				ledger.DescriptionShiftReconciliation,
				principal.ID,
				summary.BusinessDateTime,
			)
			if err != nil {
				return err
			}

			if err := repos.Summaries.Create(ctx, summary); err != nil {
				return err
			}
			if err := repos.Transactions.Create(ctx, entry); err != nil {
				return wrapPersistence("failed to append ledger entry", err)
			}

			balance.ApplyDelta(summary.OwedToSafe, principal.ID)
			return repos.Balances.SaveWithLock(ctx, balance)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		lastErr = err
	}
	return wrapPersistence("balance contention persisted after retries", lastErr)
}

// wrapPersistence folds an unexpected storage failure into the retryable
// PERSISTENCE_ERROR bucket while keeping the cause for logs.
func wrapPersistence(msg string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr != shared.ErrConcurrencyConflict {
		return err
	}
	return fmt.Errorf("%s: %w: %w", msg, shared.ErrPersistence, err)
}
