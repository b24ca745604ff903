package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVendorOrderRepository implements VendorOrderRepository using GORM
type GormVendorOrderRepository struct {
	db *gorm.DB
}

// NewGormVendorOrderRepository creates a new GormVendorOrderRepository
func NewGormVendorOrderRepository(db *gorm.DB) *GormVendorOrderRepository {
	return &GormVendorOrderRepository{db: db}
}

// Create inserts the order with its items. The unique index on (order_type,
// location_id, business_day, shift_number) maps a duplicate submission to
// ErrAlreadyExists.
func (r *GormVendorOrderRepository) Create(ctx context.Context, order *ordering.VendorOrder) error {
	model, err := models.VendorOrderModelFromDomain(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID loads one order with its items in submitted line order.
func (r *GormVendorOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.VendorOrder, error) {
	var model models.VendorOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// ListForLocation returns a page of orders for a location, optionally
// narrowed to one vendor, plus the total matching the filter.
func (r *GormVendorOrderRepository) ListForLocation(ctx context.Context, locationID uuid.UUID, orderType *ordering.OrderType, filter shared.Filter) ([]*ordering.VendorOrder, int64, error) {
	filter = filter.Normalize()

	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.VendorOrderModel{}).
			Where("location_id = ?", locationID)
		if orderType != nil {
			query = query.Where("order_type = ?", orderType.String())
		}
		return applyDateRange(query, "business_date", filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []models.VendorOrderModel
	query := base().
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("business_day " + sortDirection(filter.Sort)).
		Order("shift_number " + sortDirection(filter.Sort)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*ordering.VendorOrder, len(orderModels))
	for i := range orderModels {
		order, err := orderModels[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		orders[i] = order
	}
	return orders, total, nil
}

// Ensure GormVendorOrderRepository implements VendorOrderRepository
var _ ordering.VendorOrderRepository = (*GormVendorOrderRepository)(nil)
