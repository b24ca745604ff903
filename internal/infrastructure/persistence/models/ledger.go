package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// SafeBalanceModel is the persistence model for the per-location safe
// balance. The unique index on location_id keeps it one row per location;
// Version backs the compare-and-swap save.
type SafeBalanceModel struct {
	AggregateModel
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uniq_safe_balance_location"`
	Value      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UpdatedBy  uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for SafeBalanceModel
func (SafeBalanceModel) TableName() string {
	return "safe_balances"
}

// ToDomain converts SafeBalanceModel to domain SafeBalance
func (m *SafeBalanceModel) ToDomain() *ledger.SafeBalance {
	b := &ledger.SafeBalance{
		LocationID: m.LocationID,
		Value:      m.Value,
		UpdatedBy:  m.UpdatedBy,
	}
	m.PopulateAggregateRoot(&b.BaseAggregateRoot)
	return b
}

// SafeBalanceModelFromDomain creates a SafeBalanceModel from domain SafeBalance
func SafeBalanceModelFromDomain(b *ledger.SafeBalance) *SafeBalanceModel {
	model := &SafeBalanceModel{
		LocationID: b.LocationID,
		Value:      b.Value,
		UpdatedBy:  b.UpdatedBy,
	}
	model.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return model
}

// SafeTransactionModel is the persistence model for append-only ledger
// entries. Amount is signed; rows are never updated or deleted.
type SafeTransactionModel struct {
	BaseModel
	LocationID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_safe_tx_location_date,priority:1"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type         string          `gorm:"type:varchar(10);not null"`
	Description  string          `gorm:"type:varchar(255);not null"`
	ActorID      uuid.UUID       `gorm:"type:uuid;not null"`
	BusinessDate time.Time       `gorm:"not null;index:idx_safe_tx_location_date,priority:2"`
}

// TableName returns the table name for SafeTransactionModel
func (SafeTransactionModel) TableName() string {
	return "safe_transactions"
}

// ToDomain converts SafeTransactionModel to domain SafeTransaction
func (m *SafeTransactionModel) ToDomain() *ledger.SafeTransaction {
	return &ledger.SafeTransaction{
		BaseEntity:   m.BaseModel.ToDomain(),
		LocationID:   m.LocationID,
		Amount:       m.Amount,
		Type:         ledger.TransactionType(m.Type),
		Description:  m.Description,
		ActorID:      m.ActorID,
		BusinessDate: m.BusinessDate,
	}
}

// SafeTransactionModelFromDomain creates a SafeTransactionModel from domain SafeTransaction
func SafeTransactionModelFromDomain(tx *ledger.SafeTransaction) *SafeTransactionModel {
	model := &SafeTransactionModel{
		LocationID:   tx.LocationID,
		Amount:       tx.Amount,
		Type:         tx.Type.String(),
		Description:  tx.Description,
		ActorID:      tx.ActorID,
		BusinessDate: tx.BusinessDate,
	}
	model.FromDomainBaseEntity(tx.BaseEntity)
	return model
}

// CashSummaryModel is the persistence model for shift-close reconciliation
// records. BusinessDay is the calendar-day truncation of BusinessDateTime and
// carries the unique index that makes the once-per-shift rule hold under
// concurrent submissions.
type CashSummaryModel struct {
	BaseModel
	LocationID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uniq_cash_summary_shift,priority:1"`
	ExpectedCloseoutCash decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StartingRegisterCash decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnlineTipsToast      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnlineTipsKiosk      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OnlineTipCash        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalTipDeduction    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OwedToSafe           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemovalAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemovalItemCount     int             `gorm:"not null;default:0"`
	Discounts            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShiftNumber          int             `gorm:"not null;uniqueIndex:uniq_cash_summary_shift,priority:3"`
	BusinessDateTime     time.Time       `gorm:"not null"`
	BusinessDay          time.Time       `gorm:"type:date;not null;uniqueIndex:uniq_cash_summary_shift,priority:2"`
	CreatedBy            uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for CashSummaryModel
func (CashSummaryModel) TableName() string {
	return "cash_summaries"
}

// ToDomain converts CashSummaryModel to domain CashSummary
func (m *CashSummaryModel) ToDomain() *ledger.CashSummary {
	return &ledger.CashSummary{
		BaseEntity:           m.BaseModel.ToDomain(),
		LocationID:           m.LocationID,
		ExpectedCloseoutCash: m.ExpectedCloseoutCash,
		StartingRegisterCash: m.StartingRegisterCash,
		OnlineTipsToast:      m.OnlineTipsToast,
		OnlineTipsKiosk:      m.OnlineTipsKiosk,
		OnlineTipCash:        m.OnlineTipCash,
		TotalTipDeduction:    m.TotalTipDeduction,
		OwedToSafe:           m.OwedToSafe,
		RemovalAmount:        m.RemovalAmount,
		RemovalItemCount:     m.RemovalItemCount,
		Discounts:            m.Discounts,
		ShiftNumber:          m.ShiftNumber,
		BusinessDateTime:     m.BusinessDateTime,
		CreatedBy:            m.CreatedBy,
	}
}

// CashSummaryModelFromDomain creates a CashSummaryModel from domain CashSummary
func CashSummaryModelFromDomain(s *ledger.CashSummary) *CashSummaryModel {
	model := &CashSummaryModel{
		LocationID:           s.LocationID,
		ExpectedCloseoutCash: s.ExpectedCloseoutCash,
		StartingRegisterCash: s.StartingRegisterCash,
		OnlineTipsToast:      s.OnlineTipsToast,
		OnlineTipsKiosk:      s.OnlineTipsKiosk,
		OnlineTipCash:        s.OnlineTipCash,
		TotalTipDeduction:    s.TotalTipDeduction,
		OwedToSafe:           s.OwedToSafe,
		RemovalAmount:        s.RemovalAmount,
		RemovalItemCount:     s.RemovalItemCount,
		Discounts:            s.Discounts,
		ShiftNumber:          s.ShiftNumber,
		BusinessDateTime:     s.BusinessDateTime,
		BusinessDay:          s.BusinessDay(),
		CreatedBy:            s.CreatedBy,
	}
	model.FromDomainBaseEntity(s.BaseEntity)
	return model
}
