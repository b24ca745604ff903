// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor is given a nil meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// LedgerMetrics tracks the cash movements of the safe ledger: shift
// reconciliations, bank deposits, rejected submissions, and the current
// per-location balance.
type LedgerMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	reconciliationsTotal *Counter
	depositsTotal        *Counter
	rejectionsTotal      *Counter

	// Histogram of absolute cash movement amounts (dollars)
	cashMovedAmount *Histogram

	// Gauge of the current safe balance per location
	safeBalanceValue *FloatGauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	balanceProvider BalanceMetricsProvider
}

// BalanceMetricsProvider supplies balance data for periodic collection.
// This interface lets the telemetry layer observe safe balances without
// depending on the ledger domain directly.
type BalanceMetricsProvider interface {
	// GetBalancesByLocation returns the current safe balance per location.
	GetBalancesByLocation(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
}

// LedgerMetricsConfig holds configuration for ledger metrics.
type LedgerMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BalanceProvider BalanceMetricsProvider
}

// NewLedgerMetrics creates a new LedgerMetrics instance.
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lm := &LedgerMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		balanceProvider: cfg.BalanceProvider,
	}

	var err error

	lm.reconciliationsTotal, err = NewCounter(
		cfg.Meter,
		"restops_reconciliations_total",
		"Total number of shift reconciliations committed",
		"{reconciliations}",
	)
	if err != nil {
		return nil, err
	}

	lm.depositsTotal, err = NewCounter(
		cfg.Meter,
		"restops_deposits_total",
		"Total number of safe-to-bank deposits",
		"{deposits}",
	)
	if err != nil {
		return nil, err
	}

	lm.rejectionsTotal, err = NewCounter(
		cfg.Meter,
		"restops_rejections_total",
		"Total number of rejected ledger submissions by reason",
		"{rejections}",
	)
	if err != nil {
		return nil, err
	}

	lm.cashMovedAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "restops_cash_moved_amount",
		Description: "Distribution of absolute cash movement amounts",
		Unit:        "{usd}",
		Boundaries:  CashAmountBuckets,
	})
	if err != nil {
		return nil, err
	}

	lm.safeBalanceValue, err = NewFloatGauge(
		cfg.Meter,
		"restops_safe_balance_value",
		"Current safe balance per location",
		"{usd}",
	)
	if err != nil {
		return nil, err
	}

	return lm, nil
}

// RecordReconciliation records a committed shift reconciliation.
func (lm *LedgerMetrics) RecordReconciliation(ctx context.Context, locationID uuid.UUID, shiftNumber int, owedToSafe decimal.Decimal) {
	lm.reconciliationsTotal.Inc(ctx,
		AttrLocationID.String(locationID.String()),
		AttrShiftNumber.Int(shiftNumber),
	)
	amount, _ := owedToSafe.Abs().Float64()
	lm.cashMovedAmount.Record(ctx, amount,
		AttrLocationID.String(locationID.String()),
	)
}

// RecordDeposit records a committed safe-to-bank deposit.
func (lm *LedgerMetrics) RecordDeposit(ctx context.Context, locationID uuid.UUID, deposited decimal.Decimal) {
	lm.depositsTotal.Inc(ctx,
		AttrLocationID.String(locationID.String()),
	)
	amount, _ := deposited.Float64()
	lm.cashMovedAmount.Record(ctx, amount,
		AttrLocationID.String(locationID.String()),
	)
}

// RecordRejection records a rejected submission with its reason code
// (e.g., "DUPLICATE_SHIFT", "INSUFFICIENT_FUNDS", "NO_FUNDS").
func (lm *LedgerMetrics) RecordRejection(ctx context.Context, reason string) {
	lm.rejectionsTotal.Inc(ctx, AttrRejectionReason.String(reason))
}

// StartPeriodicCollection starts a background goroutine that periodically
// snapshots per-location balances into the gauge. Safe to call once; repeat
// calls are no-ops.
func (lm *LedgerMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if lm.balanceProvider == nil {
		lm.logger.Debug("No balance provider configured, skipping periodic collection")
		return
	}

	if interval <= 0 {
		interval = 5 * time.Minute
	}

	lm.collectOnce.Do(func() {
		go lm.collectLoop(ctx, interval)
	})
}

func (lm *LedgerMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once at startup so dashboards are not empty until the first tick.
	lm.collectBalances(ctx)

	for {
		select {
		case <-ticker.C:
			lm.collectBalances(ctx)
		case <-lm.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (lm *LedgerMetrics) collectBalances(ctx context.Context) {
	collectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	balances, err := lm.balanceProvider.GetBalancesByLocation(collectCtx)
	if err != nil {
		lm.logger.Warn("Failed to collect balance metrics", zap.Error(err))
		return
	}

	for locationID, value := range balances {
		v, _ := value.Float64()
		lm.safeBalanceValue.Record(collectCtx, v,
			AttrLocationID.String(locationID.String()),
		)
	}
}

// Stop terminates the periodic collector. Safe to call multiple times.
func (lm *LedgerMetrics) Stop() {
	lm.stopOnce.Do(func() {
		close(lm.stopChan)
	})
}
