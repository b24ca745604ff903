package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/shared"
)

// OrderType identifies the vendor a purchase order is submitted to.
type OrderType string

const (
	OrderTypeSysco           OrderType = "SYSCO"
	OrderTypeUSChef          OrderType = "US_CHEF"
	OrderTypeRestaurantDepot OrderType = "RESTAURANT_DEPOT"
	OrderTypeSpecialOnline   OrderType = "SPECIAL_ONLINE"
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	return string(t)
}

// IsValid returns true if the order type is one of the supported vendors.
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeSysco, OrderTypeUSChef, OrderTypeRestaurantDepot, OrderTypeSpecialOnline:
		return true
	}
	return false
}

// Well-known quantity field names. Which of these an item carries depends on
// the vendor: most orders have boh/order only, Sysco adds yesterday_order
// and a computed total.
const (
	FieldBOH            = "boh"
	FieldOrder          = "order"
	FieldYesterdayOrder = "yesterday_order"
	FieldTotal          = "total"
)

// Quantity is one named quantity on an order item. Items keep their
// quantities as an ordered list rather than a map so the report
// normalization can preserve first-seen field order.
type Quantity struct {
	Name  string
	Value decimal.Decimal
}

// OrderItem is one line of a vendor order: an item reference plus whatever
// quantity fields that vendor's form carries.
type OrderItem struct {
	ItemRef    string
	ItemName   string
	Quantities []Quantity
}

// NewOrderItem creates a standard line item with beginning-on-hand and
// ordered quantities.
func NewOrderItem(ref, name string, boh, order decimal.Decimal) OrderItem {
	return OrderItem{
		ItemRef:  ref,
		ItemName: name,
		Quantities: []Quantity{
			{Name: FieldBOH, Value: boh},
			{Name: FieldOrder, Value: order},
		},
	}
}

// NewSyscoOrderItem creates a Sysco line item, which additionally carries
// yesterday's order and a computed total of on-hand plus ordered quantities.
func NewSyscoOrderItem(ref, name string, boh, yesterdayOrder, order decimal.Decimal) OrderItem {
	return OrderItem{
		ItemRef:  ref,
		ItemName: name,
		Quantities: []Quantity{
			{Name: FieldBOH, Value: boh},
			{Name: FieldYesterdayOrder, Value: yesterdayOrder},
			{Name: FieldOrder, Value: order},
			{Name: FieldTotal, Value: boh.Add(yesterdayOrder).Add(order)},
		},
	}
}

// Get returns the named quantity and whether the item carries it.
func (i OrderItem) Get(field string) (decimal.Decimal, bool) {
	for _, q := range i.Quantities {
		if q.Name == field {
			return q.Value, true
		}
	}
	return decimal.Zero, false
}

// VendorOrder is a per-supplier shift-level purchase-order submission. One
// exists per (order type, location, business day, shift) - enforced by a
// storage-level unique index. Created once per submission; read-only
// afterward.
type VendorOrder struct {
	shared.BaseEntity
	Type         OrderType
	LocationID   uuid.UUID
	ShiftNumber  int
	BusinessDate time.Time
	CreatedBy    uuid.UUID
	Items        []OrderItem
}

// NewVendorOrder validates and creates an order submission.
func NewVendorOrder(
	orderType OrderType,
	locationID uuid.UUID,
	shiftNumber int,
	businessDate time.Time,
	createdBy uuid.UUID,
	items []OrderItem,
) (*VendorOrder, error) {
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Unknown vendor order type")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if shiftNumber < 1 || shiftNumber > 4 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shift number must be between 1 and 4")
	}
	if businessDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Business date is required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Acting principal ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "An order needs at least one item")
	}
	for _, item := range items {
		if item.ItemName == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Every order item needs a name")
		}
	}

	return &VendorOrder{
		BaseEntity:   shared.NewBaseEntity(),
		Type:         orderType,
		LocationID:   locationID,
		ShiftNumber:  shiftNumber,
		BusinessDate: businessDate,
		CreatedBy:    createdBy,
		Items:        items,
	}, nil
}

// BusinessDay truncates the order's business date to its UTC calendar day.
func (o *VendorOrder) BusinessDay() time.Time {
	u := o.BusinessDate.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
