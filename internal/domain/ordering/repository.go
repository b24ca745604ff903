package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/restops/backend/internal/domain/shared"
)

// VendorOrderRepository persists vendor order submissions.
type VendorOrderRepository interface {
	// Create inserts the order. The storage layer carries a unique index on
	// (type, location, business day, shift); a violation surfaces as
	// shared.ErrAlreadyExists.
	Create(ctx context.Context, order *VendorOrder) error

	// FindByID loads one order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*VendorOrder, error)

	// ListForLocation returns a page of orders for a location, optionally
	// narrowed to one vendor, plus the unfiltered total.
	ListForLocation(ctx context.Context, locationID uuid.UUID, orderType *OrderType, filter shared.Filter) ([]*VendorOrder, int64, error)
}
