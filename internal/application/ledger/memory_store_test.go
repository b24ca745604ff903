package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/domain/shared"
)

// memoryStore is an in-memory stand-in for the ledger storage used by the
// service tests. It honors the same contracts as the GORM implementations:
// version-checked balance saves, unique (location, day, shift) summaries and
// snapshot/restore rollback inside the unit of work.
type memoryStore struct {
	mu        sync.Mutex
	balances  map[uuid.UUID]ledger.SafeBalance
	entries   []ledger.SafeTransaction
	summaries []ledger.CashSummary

	failEntryCreate   bool
	failSummaryCreate bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{balances: make(map[uuid.UUID]ledger.SafeBalance)}
}

func (m *memoryStore) seedBalance(locationID uuid.UUID, value float64) {
	b, _ := ledger.NewSafeBalance(locationID)
	b.Value = decimal.NewFromFloat(value)
	m.balances[locationID] = *b
}

func (m *memoryStore) repos() ledger.Repositories {
	return ledger.Repositories{
		Balances:     &memBalanceRepo{store: m},
		Transactions: &memTransactionRepo{store: m},
		Summaries:    &memSummaryRepo{store: m},
	}
}

// snapshot and restore emulate transactional rollback.
func (m *memoryStore) snapshot() *memoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &memoryStore{balances: make(map[uuid.UUID]ledger.SafeBalance, len(m.balances))}
	for k, v := range m.balances {
		s.balances[k] = v
	}
	s.entries = append([]ledger.SafeTransaction(nil), m.entries...)
	s.summaries = append([]ledger.CashSummary(nil), m.summaries...)
	return s
}

func (m *memoryStore) restore(s *memoryStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = s.balances
	m.entries = s.entries
	m.summaries = s.summaries
}

type memBalanceRepo struct{ store *memoryStore }

func (r *memBalanceRepo) GetOrCreate(_ context.Context, locationID uuid.UUID) (*ledger.SafeBalance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.balances[locationID]; ok {
		copied := b
		return &copied, nil
	}
	b, err := ledger.NewSafeBalance(locationID)
	if err != nil {
		return nil, err
	}
	r.store.balances[locationID] = *b
	copied := *b
	return &copied, nil
}

func (r *memBalanceRepo) SaveWithLock(_ context.Context, balance *ledger.SafeBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.balances[balance.LocationID]
	if !ok || current.Version != balance.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.store.balances[balance.LocationID] = *balance
	return nil
}

type memTransactionRepo struct{ store *memoryStore }

func (r *memTransactionRepo) Create(_ context.Context, tx *ledger.SafeTransaction) error {
	if r.store.failEntryCreate {
		return shared.ErrPersistence
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = append(r.store.entries, *tx)
	return nil
}

func (r *memTransactionRepo) ListForLocation(_ context.Context, locationID uuid.UUID, filter shared.Filter) ([]*ledger.SafeTransaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*ledger.SafeTransaction
	for i := range r.store.entries {
		if r.store.entries[i].LocationID == locationID {
			copied := r.store.entries[i]
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memTransactionRepo) SumForLocation(_ context.Context, locationID uuid.UUID) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum := decimal.Zero
	for i := range r.store.entries {
		if r.store.entries[i].LocationID == locationID {
			sum = sum.Add(r.store.entries[i].Amount)
		}
	}
	return sum, nil
}

type memSummaryRepo struct{ store *memoryStore }

func (r *memSummaryRepo) Create(_ context.Context, summary *ledger.CashSummary) error {
	if r.store.failSummaryCreate {
		return shared.ErrPersistence
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.summaries {
		existing := &r.store.summaries[i]
		if existing.LocationID == summary.LocationID &&
			existing.BusinessDay().Equal(summary.BusinessDay()) &&
			existing.ShiftNumber == summary.ShiftNumber {
			return shared.ErrDuplicateShift
		}
	}
	r.store.summaries = append(r.store.summaries, *summary)
	return nil
}

func (r *memSummaryRepo) ExistsForShift(_ context.Context, locationID uuid.UUID, businessDay time.Time, shiftNumber int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.summaries {
		existing := &r.store.summaries[i]
		if existing.LocationID == locationID &&
			existing.BusinessDay().Equal(businessDay) &&
			existing.ShiftNumber == shiftNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memSummaryRepo) ListForLocation(_ context.Context, locationID uuid.UUID, filter shared.Filter) ([]*ledger.CashSummary, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*ledger.CashSummary
	for i := range r.store.summaries {
		if r.store.summaries[i].LocationID == locationID {
			copied := r.store.summaries[i]
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

// memUnitOfWork serializes units of work and rolls the store back when the
// function fails, mirroring a database transaction.
type memUnitOfWork struct {
	mu    sync.Mutex
	store *memoryStore
}

func (u *memUnitOfWork) Execute(_ context.Context, fn func(repos ledger.Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	snap := u.store.snapshot()
	if err := fn(u.store.repos()); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}
