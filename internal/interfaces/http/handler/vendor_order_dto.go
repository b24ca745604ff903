package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/application/ordering"
	domain "github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/infrastructure/printing"
)

// QuantityRequest is one named quantity on an order item
// @Description Named quantity field, e.g. {"name": "boh", "value": 3}
type QuantityRequest struct {
	Name  string  `json:"name" binding:"required,max=50" example:"boh"`
	Value float64 `json:"value" binding:"min=0" example:"3"`
}

// OrderItemRequest is one line of a vendor order submission
// @Description Order line item with vendor-specific quantity fields
type OrderItemRequest struct {
	ItemRef    string            `json:"item_ref" binding:"max=100" example:"SYS-10023"`
	ItemName   string            `json:"item_name" binding:"required,max=255" example:"Chicken Breast 40lb"`
	Quantities []QuantityRequest `json:"quantities" binding:"required,min=1,dive"`
}

// SubmitOrderRequest carries one vendor order submission
// @Description Request body for submitting a vendor order
type SubmitOrderRequest struct {
	OrderType    string             `json:"order_type" binding:"required,oneof=SYSCO US_CHEF RESTAURANT_DEPOT SPECIAL_ONLINE" example:"SYSCO"`
	ShiftNumber  int                `json:"shift_number" binding:"required,min=1,max=4" example:"1"`
	BusinessDate time.Time          `json:"business_date" binding:"required" example:"2026-08-30T14:00:00Z"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// toInput converts the request into the application input. Quantity field
// names pass through untouched; each vendor's form decides what it carries.
func (r SubmitOrderRequest) toInput(locationID uuid.UUID) ordering.SubmitOrderInput {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		quantities := make([]domain.Quantity, 0, len(item.Quantities))
		for _, q := range item.Quantities {
			quantities = append(quantities, domain.Quantity{
				Name:  q.Name,
				Value: decimal.NewFromFloat(q.Value),
			})
		}
		items = append(items, domain.OrderItem{
			ItemRef:    item.ItemRef,
			ItemName:   item.ItemName,
			Quantities: quantities,
		})
	}
	return ordering.SubmitOrderInput{
		Type:         domain.OrderType(r.OrderType),
		LocationID:   locationID,
		ShiftNumber:  r.ShiftNumber,
		BusinessDate: r.BusinessDate,
		Items:        items,
	}
}

// QuantityResponse is one named quantity in API responses
// @Description Named quantity field
type QuantityResponse struct {
	Name  string  `json:"name" example:"boh"`
	Value float64 `json:"value" example:"3"`
}

// OrderItemResponse is one order line in API responses
// @Description Order line item
type OrderItemResponse struct {
	ItemRef    string             `json:"item_ref,omitempty" example:"SYS-10023"`
	ItemName   string             `json:"item_name" example:"Chicken Breast 40lb"`
	Quantities []QuantityResponse `json:"quantities"`
}

// VendorOrderResponse represents a vendor order in API responses
// @Description Vendor order submission
type VendorOrderResponse struct {
	ID           string              `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderType    string              `json:"order_type" example:"SYSCO"`
	LocationID   string              `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ShiftNumber  int                 `json:"shift_number" example:"1"`
	BusinessDate time.Time           `json:"business_date"`
	BusinessDay  string              `json:"business_day" example:"2026-08-30"`
	CreatedBy    string              `json:"created_by" example:"550e8400-e29b-41d4-a716-446655440002"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

func newVendorOrderResponse(o *domain.VendorOrder) VendorOrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		quantities := make([]QuantityResponse, 0, len(item.Quantities))
		for _, q := range item.Quantities {
			quantities = append(quantities, QuantityResponse{Name: q.Name, Value: q.Value.InexactFloat64()})
		}
		items = append(items, OrderItemResponse{
			ItemRef:    item.ItemRef,
			ItemName:   item.ItemName,
			Quantities: quantities,
		})
	}
	return VendorOrderResponse{
		ID:           o.ID.String(),
		OrderType:    o.Type.String(),
		LocationID:   o.LocationID.String(),
		ShiftNumber:  o.ShiftNumber,
		BusinessDate: o.BusinessDate,
		BusinessDay:  o.BusinessDay().Format("2006-01-02"),
		CreatedBy:    o.CreatedBy.String(),
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}

func newVendorOrderListResponse(orders []*domain.VendorOrder) []VendorOrderResponse {
	out := make([]VendorOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newVendorOrderResponse(o))
	}
	return out
}

// OrderReportRowResponse is one normalized report line
// @Description Report table row with every unioned field filled in
type OrderReportRowResponse struct {
	ItemName string             `json:"item_name" example:"Chicken Breast 40lb"`
	Values   map[string]float64 `json:"values"`
}

// OrderReportResponse is a vendor order reshaped into a rectangular table
// @Description Normalized order report for display
type OrderReportResponse struct {
	OrderID      string                   `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OrderType    string                   `json:"order_type" example:"SYSCO"`
	LocationID   string                   `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ShiftNumber  int                      `json:"shift_number" example:"1"`
	BusinessDate time.Time                `json:"business_date"`
	Fields       []string                 `json:"fields" example:"boh,yesterday_order,order,total"`
	Rows         []OrderReportRowResponse `json:"rows"`
}

func newOrderReportResponse(report *ordering.OrderReport) OrderReportResponse {
	rows := make([]OrderReportRowResponse, 0, len(report.Rows))
	for _, row := range report.Rows {
		values := make(map[string]float64, len(row.Values))
		for name, v := range row.Values {
			values[name] = v.InexactFloat64()
		}
		rows = append(rows, OrderReportRowResponse{ItemName: row.ItemName, Values: values})
	}
	return OrderReportResponse{
		OrderID:      report.Order.ID.String(),
		OrderType:    report.Order.Type.String(),
		LocationID:   report.Order.LocationID.String(),
		ShiftNumber:  report.Order.ShiftNumber,
		BusinessDate: report.Order.BusinessDate,
		Fields:       report.Fields,
		Rows:         rows,
	}
}

// toPrintData reshapes a normalized report into the print-ready view, with
// row values flattened into field order.
func toPrintData(report *ordering.OrderReport) printing.OrderReportData {
	rows := make([]printing.OrderReportRow, 0, len(report.Rows))
	for _, row := range report.Rows {
		values := make([]decimal.Decimal, 0, len(report.Fields))
		for _, field := range report.Fields {
			values = append(values, row.Values[field])
		}
		rows = append(rows, printing.OrderReportRow{ItemName: row.ItemName, Values: values})
	}
	return printing.OrderReportData{
		Vendor:       report.Order.Type.String(),
		BusinessDate: report.Order.BusinessDate,
		ShiftNumber:  report.Order.ShiftNumber,
		Fields:       report.Fields,
		Rows:         rows,
		GeneratedAt:  time.Now(),
	}
}
