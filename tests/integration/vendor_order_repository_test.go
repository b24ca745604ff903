package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/persistence"
)

// TestVendorOrderRepository_Integration tests the VendorOrderRepository
// against a real PostgreSQL database.
func TestVendorOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormVendorOrderRepository(testDB.DB)
	ctx := context.Background()

	createdBy := uuid.New()
	businessDate := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	newOrder := func(t *testing.T, orderType ordering.OrderType, locationID uuid.UUID, shift int, date time.Time, items []ordering.OrderItem) *ordering.VendorOrder {
		t.Helper()
		order, err := ordering.NewVendorOrder(orderType, locationID, shift, date, createdBy, items)
		require.NoError(t, err)
		return order
	}

	t.Run("Create and FindByID", func(t *testing.T) {
		locationID := uuid.New()
		items := []ordering.OrderItem{
			ordering.NewSyscoOrderItem("10001", "Chicken Wings", decimal.NewFromInt(3), decimal.NewFromInt(2), decimal.NewFromInt(5)),
			ordering.NewSyscoOrderItem("10002", "Fryer Oil", decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(4)),
		}
		order := newOrder(t, ordering.OrderTypeSysco, locationID, 1, businessDate, items)

		require.NoError(t, repo.Create(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		assert.Equal(t, ordering.OrderTypeSysco, found.Type)
		assert.Equal(t, locationID, found.LocationID)
		assert.Equal(t, 1, found.ShiftNumber)
		assert.Equal(t, createdBy, found.CreatedBy)

		// Line order and quantity fields survive the round trip.
		require.Len(t, found.Items, 2)
		assert.Equal(t, "10001", found.Items[0].ItemRef)
		assert.Equal(t, "Chicken Wings", found.Items[0].ItemName)
		boh, ok := found.Items[0].Get(ordering.FieldBOH)
		require.True(t, ok)
		assert.True(t, boh.Equal(decimal.NewFromInt(3)))
		yesterday, ok := found.Items[0].Get(ordering.FieldYesterdayOrder)
		require.True(t, ok)
		assert.True(t, yesterday.Equal(decimal.NewFromInt(2)))
		assert.Equal(t, "10002", found.Items[1].ItemRef)
	})

	t.Run("FindByID returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate vendor day and shift is rejected", func(t *testing.T) {
		locationID := uuid.New()
		items := []ordering.OrderItem{
			ordering.NewOrderItem("20001", "Napkins", decimal.NewFromInt(2), decimal.NewFromInt(6)),
		}

		first := newOrder(t, ordering.OrderTypeUSChef, locationID, 2, businessDate, items)
		require.NoError(t, repo.Create(ctx, first))

		// Same vendor, location, business day and shift at a different clock
		// time is still a duplicate.
		second := newOrder(t, ordering.OrderTypeUSChef, locationID, 2, businessDate.Add(3*time.Hour), items)
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		// A different vendor on the same day and shift is fine.
		other := newOrder(t, ordering.OrderTypeRestaurantDepot, locationID, 2, businessDate, items)
		assert.NoError(t, repo.Create(ctx, other))

		// So is the same vendor on the next shift.
		nextShift := newOrder(t, ordering.OrderTypeUSChef, locationID, 3, businessDate, items)
		assert.NoError(t, repo.Create(ctx, nextShift))
	})

	t.Run("ListForLocation filters by vendor and paginates", func(t *testing.T) {
		locationID := uuid.New()
		items := []ordering.OrderItem{
			ordering.NewOrderItem("30001", "Lemons", decimal.NewFromInt(1), decimal.NewFromInt(3)),
		}

		for day := 0; day < 3; day++ {
			date := businessDate.AddDate(0, 0, day)
			require.NoError(t, repo.Create(ctx, newOrder(t, ordering.OrderTypeSysco, locationID, 1, date, items)))
			require.NoError(t, repo.Create(ctx, newOrder(t, ordering.OrderTypeUSChef, locationID, 1, date, items)))
		}

		// Orders for other locations stay out of the listing.
		require.NoError(t, repo.Create(ctx, newOrder(t, ordering.OrderTypeSysco, uuid.New(), 1, businessDate, items)))

		all, total, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		assert.Len(t, all, 6)

		sysco := ordering.OrderTypeSysco
		filtered, total, err := repo.ListForLocation(ctx, locationID, &sysco, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, filtered, 3)
		for _, order := range filtered {
			assert.Equal(t, ordering.OrderTypeSysco, order.Type)
		}

		// Default sort is newest first; page two continues where page one
		// left off and the total stays unpaginated.
		pageOne, total, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{Page: 1, PageSize: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		require.Len(t, pageOne, 4)

		pageTwo, total, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{Page: 2, PageSize: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		require.Len(t, pageTwo, 2)
		assert.False(t, pageTwo[0].BusinessDay().After(pageOne[len(pageOne)-1].BusinessDay()))

		ascending, _, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{Sort: shared.SortAscending})
		require.NoError(t, err)
		require.Len(t, ascending, 6)
		assert.True(t, ascending[0].BusinessDay().Before(ascending[5].BusinessDay()) ||
			ascending[0].BusinessDay().Equal(ascending[5].BusinessDay()))

		// Date range narrowing keeps only the middle day.
		from := businessDate.AddDate(0, 0, 1)
		to := from
		ranged, total, err := repo.ListForLocation(ctx, locationID, nil, shared.Filter{DateFrom: &from, DateTo: &to})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, order := range ranged {
			assert.True(t, order.BusinessDay().Equal(from.Truncate(24*time.Hour)))
		}
	})
}
