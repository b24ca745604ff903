package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupLedgerTestDB opens an in-memory database with the real schema,
// including the unique indexes the duplicate-shift guarantees depend on.
func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	// A fresh pool connection would see an empty in-memory database, so the
	// test pool is pinned to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func summaryInput(locationID uuid.UUID, shift int, at time.Time) ledger.CashSummaryInput {
	return ledger.CashSummaryInput{
		LocationID:           locationID,
		ExpectedCloseoutCash: decimal.NewFromFloat(800),
		StartingRegisterCash: decimal.NewFromFloat(400),
		OnlineTipsToast:      decimal.NewFromFloat(50),
		OnlineTipsKiosk:      decimal.NewFromFloat(25),
		OnlineTipCash:        decimal.NewFromFloat(10),
		ShiftNumber:          shift,
		BusinessDateTime:     at,
	}
}

func TestGormSafeBalanceRepository_RoundTrip(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormSafeBalanceRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	actorID := uuid.New()

	t.Run("creates a zero row on first access", func(t *testing.T) {
		balance, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)
		assert.True(t, balance.Value.IsZero())
		assert.Equal(t, 1, balance.Version)

		again, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)
		assert.Equal(t, balance.ID, again.ID)
	})

	t.Run("persists a delta through the version check", func(t *testing.T) {
		balance, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)

		balance.ApplyDelta(decimal.NewFromFloat(315), actorID)
		require.NoError(t, repo.SaveWithLock(ctx, balance))

		reloaded, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)
		assert.True(t, reloaded.Value.Equal(decimal.NewFromFloat(315)))
		assert.Equal(t, 2, reloaded.Version)
	})

	t.Run("rejects a save based on a stale read", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)
		second, err := repo.GetOrCreate(ctx, locationID)
		require.NoError(t, err)

		first.ApplyDelta(decimal.NewFromFloat(10), actorID)
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second.ApplyDelta(decimal.NewFromFloat(20), actorID)
		err = repo.SaveWithLock(ctx, second)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})
}

func TestGormCashSummaryRepository_UniqueShift(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormCashSummaryRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	actorID := uuid.New()
	at := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	summary, err := ledger.NewCashSummary(summaryInput(locationID, 2, at), actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, summary))

	t.Run("second insert for the same shift is rejected", func(t *testing.T) {
		dup, err := ledger.NewCashSummary(summaryInput(locationID, 2, at.Add(time.Hour)), actorID)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		assert.Equal(t, shared.ErrDuplicateShift, err)
	})

	t.Run("same shift on another day is allowed", func(t *testing.T) {
		next, err := ledger.NewCashSummary(summaryInput(locationID, 2, at.Add(24*time.Hour)), actorID)
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, next))
	})

	t.Run("exists check sees the stored shift", func(t *testing.T) {
		exists, err := repo.ExistsForShift(ctx, locationID, at, 2)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForShift(ctx, locationID, at, 3)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list is scoped to the location", func(t *testing.T) {
		summaries, total, err := repo.ListForLocation(ctx, locationID, shared.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, summaries, 2)

		other, total, err := repo.ListForLocation(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, other)
	})
}

func TestGormSafeTransactionRepository_SumMatchesEntries(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormSafeTransactionRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	actorID := uuid.New()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	amounts := []float64{315, -50, 120.25}
	for i, amount := range amounts {
		entry, err := ledger.NewSafeTransaction(
			locationID,
			decimal.NewFromFloat(amount),
			ledger.DescriptionShiftReconciliation,
			actorID,
			day.Add(time.Duration(i)*24*time.Hour),
		)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))
	}

	sum, err := repo.SumForLocation(ctx, locationID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromFloat(385.25)), "got %s", sum)

	t.Run("list orders newest first by default", func(t *testing.T) {
		entries, total, err := repo.ListForLocation(ctx, locationID, shared.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, entries, 3)
		assert.True(t, entries[0].BusinessDate.After(entries[2].BusinessDate))
	})

	t.Run("date window narrows the page but keeps its own total", func(t *testing.T) {
		from := day.Add(24 * time.Hour)
		entries, total, err := repo.ListForLocation(ctx, locationID, shared.Filter{DateFrom: &from})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, entries, 2)
	})

	t.Run("pagination respects page size", func(t *testing.T) {
		entries, total, err := repo.ListForLocation(ctx, locationID, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, entries, 1)
	})
}

func TestGormUnitOfWork_Atomicity(t *testing.T) {
	db := setupLedgerTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	locationID := uuid.New()
	actorID := uuid.New()
	at := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	t.Run("commits all writes together", func(t *testing.T) {
		err := uow.Execute(ctx, func(repos ledger.Repositories) error {
			summary, err := ledger.NewCashSummary(summaryInput(locationID, 1, at), actorID)
			if err != nil {
				return err
			}
			if err := repos.Summaries.Create(ctx, summary); err != nil {
				return err
			}

			entry, err := ledger.NewSafeTransaction(locationID, summary.OwedToSafe,
				ledger.DescriptionShiftReconciliation, actorID, at)
			if err != nil {
				return err
			}
			if err := repos.Transactions.Create(ctx, entry); err != nil {
				return err
			}

			balance, err := repos.Balances.GetOrCreate(ctx, locationID)
			if err != nil {
				return err
			}
			balance.ApplyDelta(summary.OwedToSafe, actorID)
			return repos.Balances.SaveWithLock(ctx, balance)
		})
		require.NoError(t, err)

		balance, err := NewGormSafeBalanceRepository(db).GetOrCreate(ctx, locationID)
		require.NoError(t, err)
		assert.True(t, balance.Value.Equal(decimal.NewFromFloat(315)))

		sum, err := NewGormSafeTransactionRepository(db).SumForLocation(ctx, locationID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(balance.Value))
	})

	t.Run("rolls back every write when fn fails", func(t *testing.T) {
		boom := errors.New("late failure")
		err := uow.Execute(ctx, func(repos ledger.Repositories) error {
			summary, err := ledger.NewCashSummary(summaryInput(locationID, 3, at), actorID)
			if err != nil {
				return err
			}
			if err := repos.Summaries.Create(ctx, summary); err != nil {
				return err
			}
			return boom
		})
		assert.Equal(t, boom, err)

		exists, err := NewGormCashSummaryRepository(db).ExistsForShift(ctx, locationID, at, 3)
		require.NoError(t, err)
		assert.False(t, exists, "rolled-back summary must not be visible")
	})
}

func TestGormVendorOrderRepository(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormVendorOrderRepository(db)
	ctx := context.Background()

	locationID := uuid.New()
	actorID := uuid.New()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	order, err := ordering.NewVendorOrder(
		ordering.OrderTypeSysco, locationID, 1, day, actorID,
		[]ordering.OrderItem{
			ordering.NewSyscoOrderItem("SKU-1", "Chicken Breast",
				decimal.NewFromInt(4), decimal.NewFromInt(2), decimal.NewFromInt(6)),
			ordering.NewOrderItem("SKU-2", "Napkins",
				decimal.NewFromInt(10), decimal.NewFromInt(3)),
		},
	)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	t.Run("round-trips items in submitted order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Chicken Breast", found.Items[0].ItemName)
		assert.Equal(t, "Napkins", found.Items[1].ItemName)

		total, ok := found.Items[0].Get(ordering.FieldTotal)
		require.True(t, ok)
		assert.True(t, total.Equal(decimal.NewFromInt(12)))

		_, ok = found.Items[1].Get(ordering.FieldTotal)
		assert.False(t, ok, "standard items carry no computed total")
	})

	t.Run("duplicate submission for the same shift is rejected", func(t *testing.T) {
		dup, err := ordering.NewVendorOrder(
			ordering.OrderTypeSysco, locationID, 1, day.Add(2*time.Hour), actorID,
			[]ordering.OrderItem{ordering.NewOrderItem("SKU-9", "Foil", decimal.NewFromInt(1), decimal.NewFromInt(1))},
		)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})

	t.Run("another vendor can submit the same shift", func(t *testing.T) {
		other, err := ordering.NewVendorOrder(
			ordering.OrderTypeUSChef, locationID, 1, day, actorID,
			[]ordering.OrderItem{ordering.NewOrderItem("SKU-3", "Flour", decimal.NewFromInt(5), decimal.NewFromInt(2))},
		)
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, other))
	})

	t.Run("list filters by vendor", func(t *testing.T) {
		all, total, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, all, 2)

		sysco := ordering.OrderTypeSysco
		only, total, err := repo.ListForLocation(ctx, locationID, &sysco, shared.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, only, 1)
		assert.Equal(t, ordering.OrderTypeSysco, only[0].Type)
	})

	t.Run("missing order maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBalanceMetricsProvider(t *testing.T) {
	db := setupLedgerTestDB(t)
	ctx := context.Background()

	balanceRepo := NewGormSafeBalanceRepository(db)
	locationA := uuid.New()
	locationB := uuid.New()

	balance, err := balanceRepo.GetOrCreate(ctx, locationA)
	require.NoError(t, err)
	balance.ApplyDelta(decimal.NewFromFloat(120.50), uuid.New())
	require.NoError(t, balanceRepo.SaveWithLock(ctx, balance))

	_, err = balanceRepo.GetOrCreate(ctx, locationB)
	require.NoError(t, err)

	provider := NewGormBalanceMetricsProvider(db)
	balances, err := provider.GetBalancesByLocation(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.True(t, balances[locationA].Equal(decimal.NewFromFloat(120.50)))
	assert.True(t, balances[locationB].IsZero())
}
