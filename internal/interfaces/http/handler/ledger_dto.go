package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/interfaces/http/dto"
)

// ReconcileShiftRequest carries the register counts submitted at shift close
// @Description Request body for closing out a register shift
type ReconcileShiftRequest struct {
	ExpectedCloseoutCash float64   `json:"expected_closeout_cash" binding:"min=0" example:"1250.75"`
	StartingRegisterCash float64   `json:"starting_register_cash" binding:"min=0" example:"300.00"`
	OnlineTipsToast      float64   `json:"online_tips_toast" binding:"min=0" example:"42.50"`
	OnlineTipsKiosk      float64   `json:"online_tips_kiosk" binding:"min=0" example:"18.00"`
	OnlineTipCash        float64   `json:"online_tip_cash" binding:"min=0" example:"25.00"`
	RemovalAmount        float64   `json:"removal_amount" binding:"min=0" example:"12.99"`
	RemovalItemCount     int       `json:"removal_item_count" binding:"min=0" example:"2"`
	Discounts            float64   `json:"discounts" binding:"min=0" example:"35.00"`
	ShiftNumber          int       `json:"shift_number" binding:"required,min=1,max=4" example:"1"`
	BusinessDateTime     time.Time `json:"business_date_time" binding:"required" example:"2026-08-30T14:00:00Z"`
}

// toInput converts the request into the domain input. Rounding and the
// signed-outcome arithmetic happen in the domain, not here.
func (r ReconcileShiftRequest) toInput(locationID uuid.UUID) ledger.CashSummaryInput {
	return ledger.CashSummaryInput{
		LocationID:           locationID,
		ExpectedCloseoutCash: decimal.NewFromFloat(r.ExpectedCloseoutCash),
		StartingRegisterCash: decimal.NewFromFloat(r.StartingRegisterCash),
		OnlineTipsToast:      decimal.NewFromFloat(r.OnlineTipsToast),
		OnlineTipsKiosk:      decimal.NewFromFloat(r.OnlineTipsKiosk),
		OnlineTipCash:        decimal.NewFromFloat(r.OnlineTipCash),
		RemovalAmount:        decimal.NewFromFloat(r.RemovalAmount),
		RemovalItemCount:     r.RemovalItemCount,
		Discounts:            decimal.NewFromFloat(r.Discounts),
		ShiftNumber:          r.ShiftNumber,
		BusinessDateTime:     r.BusinessDateTime,
	}
}

// CashSummaryResponse represents one shift reconciliation in API responses
// @Description Shift reconciliation record
type CashSummaryResponse struct {
	ID                   string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	LocationID           string    `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	ExpectedCloseoutCash float64   `json:"expected_closeout_cash" example:"1250.75"`
	StartingRegisterCash float64   `json:"starting_register_cash" example:"300.00"`
	OnlineTipsToast      float64   `json:"online_tips_toast" example:"42.50"`
	OnlineTipsKiosk      float64   `json:"online_tips_kiosk" example:"18.00"`
	OnlineTipCash        float64   `json:"online_tip_cash" example:"25.00"`
	TotalTipDeduction    float64   `json:"total_tip_deduction" example:"85.50"`
	OwedToSafe           float64   `json:"owed_to_safe" example:"865.25"`
	RemovalAmount        float64   `json:"removal_amount" example:"12.99"`
	RemovalItemCount     int       `json:"removal_item_count" example:"2"`
	Discounts            float64   `json:"discounts" example:"35.00"`
	ShiftNumber          int       `json:"shift_number" example:"1"`
	BusinessDateTime     time.Time `json:"business_date_time"`
	BusinessDay          string    `json:"business_day" example:"2026-08-30"`
	CreatedBy            string    `json:"created_by" example:"550e8400-e29b-41d4-a716-446655440002"`
	CreatedAt            time.Time `json:"created_at"`
}

func newCashSummaryResponse(s *ledger.CashSummary) CashSummaryResponse {
	return CashSummaryResponse{
		ID:                   s.ID.String(),
		LocationID:           s.LocationID.String(),
		ExpectedCloseoutCash: s.ExpectedCloseoutCash.InexactFloat64(),
		StartingRegisterCash: s.StartingRegisterCash.InexactFloat64(),
		OnlineTipsToast:      s.OnlineTipsToast.InexactFloat64(),
		OnlineTipsKiosk:      s.OnlineTipsKiosk.InexactFloat64(),
		OnlineTipCash:        s.OnlineTipCash.InexactFloat64(),
		TotalTipDeduction:    s.TotalTipDeduction.InexactFloat64(),
		OwedToSafe:           s.OwedToSafe.InexactFloat64(),
		RemovalAmount:        s.RemovalAmount.InexactFloat64(),
		RemovalItemCount:     s.RemovalItemCount,
		Discounts:            s.Discounts.InexactFloat64(),
		ShiftNumber:          s.ShiftNumber,
		BusinessDateTime:     s.BusinessDateTime,
		BusinessDay:          s.BusinessDay().Format("2006-01-02"),
		CreatedBy:            s.CreatedBy.String(),
		CreatedAt:            s.CreatedAt,
	}
}

func newCashSummaryListResponse(summaries []*ledger.CashSummary) []CashSummaryResponse {
	out := make([]CashSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, newCashSummaryResponse(s))
	}
	return out
}

// SafeTransactionResponse represents one ledger entry in API responses
// @Description Safe ledger entry
type SafeTransactionResponse struct {
	ID           string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	LocationID   string    `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Amount       float64   `json:"amount" example:"865.25"`
	Type         string    `json:"type" example:"CREDIT"`
	Description  string    `json:"description" example:"shift reconciliation"`
	ActorID      string    `json:"actor_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	BusinessDate time.Time `json:"business_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func newSafeTransactionResponse(t *ledger.SafeTransaction) SafeTransactionResponse {
	return SafeTransactionResponse{
		ID:           t.ID.String(),
		LocationID:   t.LocationID.String(),
		Amount:       t.Amount.InexactFloat64(),
		Type:         t.Type.String(),
		Description:  t.Description,
		ActorID:      t.ActorID.String(),
		BusinessDate: t.BusinessDate,
		CreatedAt:    t.CreatedAt,
	}
}

func newSafeTransactionListResponse(entries []*ledger.SafeTransaction) []SafeTransactionResponse {
	out := make([]SafeTransactionResponse, 0, len(entries))
	for _, t := range entries {
		out = append(out, newSafeTransactionResponse(t))
	}
	return out
}

// SafeBalanceResponse represents the current safe balance in API responses
// @Description Current safe balance for a location
type SafeBalanceResponse struct {
	LocationID string    `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Value      float64   `json:"value" example:"1730.50"`
	Version    int       `json:"version" example:"7"`
	UpdatedBy  string    `json:"updated_by,omitempty" example:"550e8400-e29b-41d4-a716-446655440002"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newSafeBalanceResponse(b *ledger.SafeBalance) SafeBalanceResponse {
	resp := SafeBalanceResponse{
		LocationID: b.LocationID.String(),
		Value:      b.Value.InexactFloat64(),
		Version:    b.Version,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.UpdatedBy != uuid.Nil {
		resp.UpdatedBy = b.UpdatedBy.String()
	}
	return resp
}

// DepositResponse represents the outcome of a bank deposit
// @Description Result of emptying the safe into a bank deposit
type DepositResponse struct {
	DepositedAmount float64                 `json:"deposited_amount" example:"1730.50"`
	Transaction     SafeTransactionResponse `json:"transaction"`
	Balance         SafeBalanceResponse     `json:"balance"`
}

// ConservationAuditResponse reports whether a location's ledger history folds
// to its balance row
// @Description Ledger conservation audit result
type ConservationAuditResponse struct {
	LocationID     string  `json:"location_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Consistent     bool    `json:"consistent" example:"true"`
	Balance        float64 `json:"balance" example:"1730.50"`
	TransactionSum float64 `json:"transaction_sum" example:"1730.50"`
}

// toFilter converts common list parameters into the repository filter.
// Defaults for page, size and sort are filled by Filter.Normalize.
func toFilter(req dto.ListRequest) (shared.Filter, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Sort:     shared.SortOrder(req.Sort),
	}
	if req.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, req.DateFrom)
		if err != nil {
			return shared.Filter{}, err
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse(time.RFC3339, req.DateTo)
		if err != nil {
			return shared.Filter{}, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}
