package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// VendorOrderModel is the persistence model for vendor order submissions.
// BusinessDay is the calendar-day truncation of BusinessDate and carries the
// unique index enforcing one submission per vendor, location, day and shift.
type VendorOrderModel struct {
	BaseModel
	OrderType    string    `gorm:"type:varchar(30);not null;uniqueIndex:uniq_vendor_order_shift,priority:1"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_vendor_order_shift,priority:2"`
	ShiftNumber  int       `gorm:"not null;uniqueIndex:uniq_vendor_order_shift,priority:4"`
	BusinessDate time.Time `gorm:"not null"`
	BusinessDay  time.Time `gorm:"type:date;not null;uniqueIndex:uniq_vendor_order_shift,priority:3"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`

	Items []VendorOrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for VendorOrderModel
func (VendorOrderModel) TableName() string {
	return "vendor_orders"
}

// VendorOrderItemModel is one line of a vendor order. Quantities are stored
// as a JSON array so each vendor's form can carry its own set of fields
// without schema churn; SortOrder preserves the submitted line order.
type VendorOrderItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemRef    string    `gorm:"type:varchar(100)"`
	ItemName   string    `gorm:"type:varchar(255);not null"`
	Quantities string    `gorm:"type:jsonb;not null;default:'[]'"`
	SortOrder  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for VendorOrderItemModel
func (VendorOrderItemModel) TableName() string {
	return "vendor_order_items"
}

// quantityJSON is the wire shape of one named quantity inside the jsonb
// column. Values travel as strings to keep decimal precision exact.
type quantityJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func marshalQuantities(quantities []ordering.Quantity) (string, error) {
	out := make([]quantityJSON, len(quantities))
	for i, q := range quantities {
		out[i] = quantityJSON{Name: q.Name, Value: q.Value.String()}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalQuantities(data string) ([]ordering.Quantity, error) {
	if data == "" {
		return nil, nil
	}
	var raw []quantityJSON
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}
	out := make([]ordering.Quantity, len(raw))
	for i, q := range raw {
		value, err := decimal.NewFromString(q.Value)
		if err != nil {
			return nil, err
		}
		out[i] = ordering.Quantity{Name: q.Name, Value: value}
	}
	return out, nil
}

// ToDomain converts VendorOrderModel to domain VendorOrder
func (m *VendorOrderModel) ToDomain() (*ordering.VendorOrder, error) {
	items := make([]ordering.OrderItem, len(m.Items))
	for i, im := range m.Items {
		quantities, err := unmarshalQuantities(im.Quantities)
		if err != nil {
			return nil, err
		}
		items[i] = ordering.OrderItem{
			ItemRef:    im.ItemRef,
			ItemName:   im.ItemName,
			Quantities: quantities,
		}
	}
	return &ordering.VendorOrder{
		BaseEntity:   m.BaseModel.ToDomain(),
		Type:         ordering.OrderType(m.OrderType),
		LocationID:   m.LocationID,
		ShiftNumber:  m.ShiftNumber,
		BusinessDate: m.BusinessDate,
		CreatedBy:    m.CreatedBy,
		Items:        items,
	}, nil
}

// VendorOrderModelFromDomain creates a VendorOrderModel from domain VendorOrder
func VendorOrderModelFromDomain(o *ordering.VendorOrder) (*VendorOrderModel, error) {
	model := &VendorOrderModel{
		OrderType:    o.Type.String(),
		LocationID:   o.LocationID,
		ShiftNumber:  o.ShiftNumber,
		BusinessDate: o.BusinessDate,
		BusinessDay:  o.BusinessDay(),
		CreatedBy:    o.CreatedBy,
	}
	model.FromDomainBaseEntity(o.BaseEntity)

	model.Items = make([]VendorOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		quantities, err := marshalQuantities(item.Quantities)
		if err != nil {
			return nil, err
		}
		model.Items[i] = VendorOrderItemModel{
			ID:         uuid.New(),
			OrderID:    o.ID,
			ItemRef:    item.ItemRef,
			ItemName:   item.ItemName,
			Quantities: quantities,
			SortOrder:  i,
		}
	}
	return model, nil
}
