package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/telemetry"
)

// QueryService serves the read side of the safe ledger: current balance,
// transaction history and past reconciliations.
type QueryService struct {
	repos ledger.Repositories
}

// NewQueryService creates a new QueryService.
func NewQueryService(repos ledger.Repositories) *QueryService {
	return &QueryService{repos: repos}
}

// GetCurrentBalance returns the location's balance, lazily creating the
// zero-valued row on first access.
func (s *QueryService) GetCurrentBalance(ctx context.Context, locationID uuid.UUID, principal identity.Principal) (*ledger.SafeBalance, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "get_balance")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	balance, err := s.repos.Balances.GetOrCreate(ctx, locationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapPersistence("failed to load balance", err)
	}
	return balance, nil
}

// GetLedgerHistory returns a page of the location's transaction history.
func (s *QueryService) GetLedgerHistory(
	ctx context.Context,
	locationID uuid.UUID,
	principal identity.Principal,
	filter shared.Filter,
) ([]*ledger.SafeTransaction, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "get_history")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	rows, total, err := s.repos.Transactions.ListForLocation(ctx, locationID, filter.Normalize())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, wrapPersistence("failed to list ledger history", err)
	}
	return rows, total, nil
}

// ListCashSummaries returns a page of the location's shift reconciliations.
func (s *QueryService) ListCashSummaries(
	ctx context.Context,
	locationID uuid.UUID,
	principal identity.Principal,
	filter shared.Filter,
) ([]*ledger.CashSummary, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "list_cash_summaries")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	rows, total, err := s.repos.Summaries.ListForLocation(ctx, locationID, filter.Normalize())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, wrapPersistence("failed to list cash summaries", err)
	}
	return rows, total, nil
}

// AuditConservation recomputes the fold of a location's transaction history
// and compares it with the balance row. Intended for operational checks; a
// mismatch means an atomicity bug, not a business condition.
func (s *QueryService) AuditConservation(ctx context.Context, locationID uuid.UUID, principal identity.Principal) (bool, decimal.Decimal, decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "audit_conservation")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return false, decimal.Zero, decimal.Zero, err
	}

	balance, err := s.repos.Balances.GetOrCreate(ctx, locationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return false, decimal.Zero, decimal.Zero, wrapPersistence("failed to load balance", err)
	}
	sum, err := s.repos.Transactions.SumForLocation(ctx, locationID)
	if err != nil {
		telemetry.RecordError(span, err)
		return false, decimal.Zero, decimal.Zero, wrapPersistence("failed to fold ledger history", err)
	}

	return balance.Value.Equal(sum), balance.Value, sum, nil
}
