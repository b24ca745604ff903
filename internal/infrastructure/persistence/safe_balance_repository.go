package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSafeBalanceRepository implements SafeBalanceRepository using GORM
type GormSafeBalanceRepository struct {
	db *gorm.DB
}

// NewGormSafeBalanceRepository creates a new GormSafeBalanceRepository
func NewGormSafeBalanceRepository(db *gorm.DB) *GormSafeBalanceRepository {
	return &GormSafeBalanceRepository{db: db}
}

// GetOrCreate returns the balance row for a location, inserting a zero-valued
// one on first access. Two callers racing on the first insert are resolved by
// the unique index on location_id: the loser re-reads the winner's row.
func (r *GormSafeBalanceRepository) GetOrCreate(ctx context.Context, locationID uuid.UUID) (*ledger.SafeBalance, error) {
	var model models.SafeBalanceModel
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	balance, err := ledger.NewSafeBalance(locationID)
	if err != nil {
		return nil, err
	}
	createErr := r.db.WithContext(ctx).
		Create(models.SafeBalanceModelFromDomain(balance)).Error
	if createErr == nil {
		return balance, nil
	}
	if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
		return nil, createErr
	}

	// Lost the insert race; the row exists now.
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		First(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveWithLock writes the balance conditioned on the version the caller read.
// The update is expressed as a column map rather than a struct so a balance
// cleared to zero is still written.
func (r *GormSafeBalanceRepository) SaveWithLock(ctx context.Context, balance *ledger.SafeBalance) error {
	result := r.db.WithContext(ctx).
		Model(&models.SafeBalanceModel{}).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"value":      balance.Value,
			"updated_by": balance.UpdatedBy,
			"updated_at": time.Now(),
			"version":    balance.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormSafeBalanceRepository implements SafeBalanceRepository
var _ ledger.SafeBalanceRepository = (*GormSafeBalanceRepository)(nil)
