package persistence

import (
	"context"

	"github.com/restops/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormUnitOfWork executes ledger operations inside a single database
// transaction. The balance mutation, the ledger entry and the summary row all
// commit together or not at all.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn with repositories bound to one transaction. A non-nil error
// from fn rolls back every write made through those repositories.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos ledger.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ledger.Repositories{
			Balances:     NewGormSafeBalanceRepository(tx),
			Transactions: NewGormSafeTransactionRepository(tx),
			Summaries:    NewGormCashSummaryRepository(tx),
		})
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ ledger.UnitOfWork = (*GormUnitOfWork)(nil)
