package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSafeTransactionRepository implements SafeTransactionRepository using GORM
type GormSafeTransactionRepository struct {
	db *gorm.DB
}

// NewGormSafeTransactionRepository creates a new GormSafeTransactionRepository
func NewGormSafeTransactionRepository(db *gorm.DB) *GormSafeTransactionRepository {
	return &GormSafeTransactionRepository{db: db}
}

// Create appends a ledger entry. Entries are immutable; there is no update
// or delete path on this repository.
func (r *GormSafeTransactionRepository) Create(ctx context.Context, tx *ledger.SafeTransaction) error {
	model := models.SafeTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListForLocation returns a page of ledger entries for the location plus the
// total matching the date filter.
func (r *GormSafeTransactionRepository) ListForLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]*ledger.SafeTransaction, int64, error) {
	filter = filter.Normalize()

	var total int64
	countQuery := r.db.WithContext(ctx).Model(&models.SafeTransactionModel{}).
		Where("location_id = ?", locationID)
	countQuery = applyDateRange(countQuery, "business_date", filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.SafeTransactionModel
	query := r.db.WithContext(ctx).Model(&models.SafeTransactionModel{}).
		Where("location_id = ?", locationID)
	query = applyDateRange(query, "business_date", filter)
	query = query.
		Order("business_date " + sortDirection(filter.Sort)).
		Order("created_at " + sortDirection(filter.Sort)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
	if err := query.Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*ledger.SafeTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = model.ToDomain()
	}
	return transactions, total, nil
}

// SumForLocation folds the signed amounts of every entry for a location.
func (r *GormSafeTransactionRepository) SumForLocation(ctx context.Context, locationID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SafeTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("location_id = ?", locationID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyDateRange narrows a query to the filter's date window on the given
// column.
func applyDateRange(query *gorm.DB, column string, filter shared.Filter) *gorm.DB {
	if filter.DateFrom != nil {
		query = query.Where(column+" >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where(column+" <= ?", *filter.DateTo)
	}
	return query
}

// sortDirection maps the normalized filter sort to a SQL keyword. Only the
// two known values ever reach here, so this cannot inject.
func sortDirection(sort shared.SortOrder) string {
	if sort == shared.SortAscending {
		return "ASC"
	}
	return "DESC"
}

// Ensure GormSafeTransactionRepository implements SafeTransactionRepository
var _ ledger.SafeTransactionRepository = (*GormSafeTransactionRepository)(nil)
