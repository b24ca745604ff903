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

// GormCashSummaryRepository implements CashSummaryRepository using GORM
type GormCashSummaryRepository struct {
	db *gorm.DB
}

// NewGormCashSummaryRepository creates a new GormCashSummaryRepository
func NewGormCashSummaryRepository(db *gorm.DB) *GormCashSummaryRepository {
	return &GormCashSummaryRepository{db: db}
}

// Create inserts the summary. The unique index on (location_id, business_day,
// shift_number) turns a lost duplicate race into ErrDuplicateShift instead of
// a second row.
func (r *GormCashSummaryRepository) Create(ctx context.Context, summary *ledger.CashSummary) error {
	model := models.CashSummaryModelFromDomain(summary)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateShift
		}
		return err
	}
	return nil
}

// ExistsForShift reports whether a summary already exists for the
// (location, business day, shift) triple.
func (r *GormCashSummaryRepository) ExistsForShift(ctx context.Context, locationID uuid.UUID, businessDay time.Time, shiftNumber int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CashSummaryModel{}).
		Where("location_id = ? AND business_day = ? AND shift_number = ?",
			locationID, ledger.BusinessDayOf(businessDay), shiftNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForLocation returns a page of summaries for the location plus the total
// matching the date filter.
func (r *GormCashSummaryRepository) ListForLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]*ledger.CashSummary, int64, error) {
	filter = filter.Normalize()

	var total int64
	countQuery := r.db.WithContext(ctx).Model(&models.CashSummaryModel{}).
		Where("location_id = ?", locationID)
	countQuery = applyDateRange(countQuery, "business_date_time", filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var summaryModels []models.CashSummaryModel
	query := r.db.WithContext(ctx).Model(&models.CashSummaryModel{}).
		Where("location_id = ?", locationID)
	query = applyDateRange(query, "business_date_time", filter)
	query = query.
		Order("business_day " + sortDirection(filter.Sort)).
		Order("shift_number " + sortDirection(filter.Sort)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
	if err := query.Find(&summaryModels).Error; err != nil {
		return nil, 0, err
	}

	summaries := make([]*ledger.CashSummary, len(summaryModels))
	for i, model := range summaryModels {
		summaries[i] = model.ToDomain()
	}
	return summaries, total, nil
}

// Ensure GormCashSummaryRepository implements CashSummaryRepository
var _ ledger.CashSummaryRepository = (*GormCashSummaryRepository)(nil)
