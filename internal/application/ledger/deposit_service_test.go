package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
)

func TestDepositToBank_ClearsBalance(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 450)
	svc := NewDepositService(f.uow)

	result, err := svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.NoError(t, err)

	assert.True(t, result.DepositedAmount.Equal(decimal.NewFromFloat(450)))
	assert.True(t, result.Balance.Value.IsZero())
	assert.True(t, f.store.balances[f.locationID].Value.IsZero())

	require.Len(t, f.store.entries, 1)
	entry := f.store.entries[0]
	assert.Equal(t, ledger.TransactionTypeDebit, entry.Type)
	assert.True(t, entry.Amount.Equal(decimal.NewFromFloat(-450)), "ledger entry carries the signed amount")
	assert.Equal(t, ledger.DescriptionDepositToBank, entry.Description)
	assert.Equal(t, f.principal.ID, entry.ActorID)
}

func TestDepositToBank_ZeroBalanceRejected(t *testing.T) {
	f := newLedgerFixture(t)
	svc := NewDepositService(f.uow)

	_, err := svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNoFunds)
	assert.Empty(t, f.store.entries)
}

func TestDepositToBank_SecondDepositFindsNothing(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 120.50)
	svc := NewDepositService(f.uow)

	first, err := svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.NoError(t, err)
	assert.True(t, first.DepositedAmount.Equal(decimal.NewFromFloat(120.50)))

	// Whoever loses the race re-reads a zero balance.
	_, err = svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNoFunds)

	assert.Len(t, f.store.entries, 1)
}

func TestDepositToBank_AtomicOnLedgerFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 300)
	f.store.failEntryCreate = true
	svc := NewDepositService(f.uow)

	_, err := svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPersistence)

	// Rollback keeps the balance intact when the entry cannot be written.
	assert.True(t, f.store.balances[f.locationID].Value.Equal(decimal.NewFromFloat(300)))
	assert.Empty(t, f.store.entries)
}

func TestDepositToBank_RetriesOnConflict(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 75)
	svc := NewDepositService(&conflictingUnitOfWork{inner: f.uow, conflicts: maxCommitAttempts - 1})

	result, err := svc.DepositToBank(context.Background(), f.locationID, f.principal)
	require.NoError(t, err)
	assert.True(t, result.DepositedAmount.Equal(decimal.NewFromFloat(75)))
}

func TestDepositToBank_DeniedForUnassignedLocation(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 100)
	svc := NewDepositService(f.uow)

	outsider := identity.NewPrincipal(uuid.New(), identity.RoleEmployee, nil)
	_, err := svc.DepositToBank(context.Background(), f.locationID, outsider)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.True(t, f.store.balances[f.locationID].Value.Equal(decimal.NewFromFloat(100)))
}

func TestDepositToBank_SuperadminBypassesAssignment(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.seedBalance(f.locationID, 60)
	svc := NewDepositService(f.uow)

	root := identity.NewPrincipal(uuid.New(), identity.RoleSuperadmin, nil)
	result, err := svc.DepositToBank(context.Background(), f.locationID, root)
	require.NoError(t, err)
	assert.True(t, result.DepositedAmount.Equal(decimal.NewFromFloat(60)))
}
