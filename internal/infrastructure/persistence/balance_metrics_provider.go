package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/restops/backend/internal/infrastructure/persistence/models"
	"github.com/restops/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBalanceMetricsProvider feeds the periodic safe-balance gauge from the
// balance table. Reads are snapshot-level; a slightly stale sample is fine
// for a gauge.
type GormBalanceMetricsProvider struct {
	db *gorm.DB
}

// NewGormBalanceMetricsProvider creates a new GormBalanceMetricsProvider
func NewGormBalanceMetricsProvider(db *gorm.DB) *GormBalanceMetricsProvider {
	return &GormBalanceMetricsProvider{db: db}
}

// GetBalancesByLocation returns the current safe balance of every location.
func (p *GormBalanceMetricsProvider) GetBalancesByLocation(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		LocationID uuid.UUID
		Value      decimal.Decimal
	}
	if err := p.db.WithContext(ctx).
		Model(&models.SafeBalanceModel{}).
		Select("location_id", "value").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		balances[row.LocationID] = row.Value
	}
	return balances, nil
}

// AuditConservation recomputes a location's ledger fold for comparison with
// its balance row.
func (p *GormBalanceMetricsProvider) AuditConservation(ctx context.Context, locationID uuid.UUID) (decimal.Decimal, error) {
	return NewGormSafeTransactionRepository(p.db).SumForLocation(ctx, locationID)
}

// Ensure GormBalanceMetricsProvider implements BalanceMetricsProvider
var _ telemetry.BalanceMetricsProvider = (*GormBalanceMetricsProvider)(nil)

// Migrate creates or updates the ledger and ordering tables. Used by tests
// and the migrate command's bootstrap path; production schema changes go
// through SQL migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SafeBalanceModel{},
		&models.SafeTransactionModel{},
		&models.CashSummaryModel{},
		&models.VendorOrderModel{},
		&models.VendorOrderItemModel{},
	)
}
