package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/telemetry"
)

// VendorOrderService handles per-supplier order submissions and the
// normalized report view used for display and export.
type VendorOrderService struct {
	orders ordering.VendorOrderRepository
}

// NewVendorOrderService creates a new VendorOrderService.
func NewVendorOrderService(orders ordering.VendorOrderRepository) *VendorOrderService {
	return &VendorOrderService{orders: orders}
}

// SubmitOrderInput carries one vendor order submission.
type SubmitOrderInput struct {
	Type         ordering.OrderType
	LocationID   uuid.UUID
	ShiftNumber  int
	BusinessDate time.Time
	Items        []ordering.OrderItem
}

// SubmitOrder creates a vendor order. At most one order exists per
// (vendor, location, business day, shift); duplicates are rejected.
func (s *VendorOrderService) SubmitOrder(ctx context.Context, input SubmitOrderInput, principal identity.Principal) (*ordering.VendorOrder, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_order", "submit")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLocationID, input.LocationID.String(),
		telemetry.SpanAttrOrderType, input.Type.String(),
	)

	if err := identity.CheckLocationAccess(principal, input.LocationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := ordering.NewVendorOrder(input.Type, input.LocationID, input.ShiftNumber, input.BusinessDate, principal.ID, input.Items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save vendor order: %w: %w", shared.ErrPersistence, err)
	}

	telemetry.AddEvent(span, "vendor_order_submitted", "order_id", order.ID.String())
	return order, nil
}

// GetOrder loads one order, enforcing location access against the order's
// own location.
func (s *VendorOrderService) GetOrder(ctx context.Context, id uuid.UUID, principal identity.Principal) (*ordering.VendorOrder, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_order", "get")
	defer span.End()

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := identity.CheckLocationAccess(principal, order.LocationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return order, nil
}

// ListOrders returns a page of orders for a location, optionally narrowed to
// one vendor.
func (s *VendorOrderService) ListOrders(
	ctx context.Context,
	locationID uuid.UUID,
	orderType *ordering.OrderType,
	principal identity.Principal,
	filter shared.Filter,
) ([]*ordering.VendorOrder, int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_order", "list")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrLocationID, locationID.String())

	if err := identity.CheckLocationAccess(principal, locationID).Err(); err != nil {
		telemetry.RecordError(span, err)
		return nil, 0, err
	}

	return s.orders.ListForLocation(ctx, locationID, orderType, filter.Normalize())
}

// OrderReport is a vendor order reshaped into a rectangular table.
type OrderReport struct {
	Order  *ordering.VendorOrder
	Fields []string
	Rows   []ordering.NormalizedRow
}

// BuildReport loads an order and normalizes its items into a uniform table.
// The same report feeds both the on-screen view and the printed export.
func (s *VendorOrderService) BuildReport(ctx context.Context, id uuid.UUID, principal identity.Principal) (*OrderReport, error) {
	order, err := s.GetOrder(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	fields, rows := ordering.NormalizeOrderItems(order.Items)
	return &OrderReport{Order: order, Fields: fields, Rows: rows}, nil
}
