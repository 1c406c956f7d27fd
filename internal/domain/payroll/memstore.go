package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memKey struct {
	employeeID string
	month      time.Month
	yearStart  int
}

// MemStore is an in-memory LedgerStore. It backs unit tests and small
// single-process deployments; the mutex gives it the same atomicity
// guarantees as the SQL store's conditional updates.
type MemStore struct {
	mu      sync.Mutex
	records map[string]SalaryRecord
	byKey   map[memKey]string
	now     func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[string]SalaryRecord),
		byKey:   make(map[memKey]string),
		now:     time.Now,
	}
}

func (m *MemStore) GetOrCreate(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey{employeeID: employeeID, month: period.Month, yearStart: period.YearStart}
	if id, ok := m.byKey[key]; ok {
		return m.records[id], nil
	}
	rec := SalaryRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Month:      period.Month,
		YearStart:  period.YearStart,
		CreatedAt:  m.now().UTC(),
	}
	m.records[rec.ID] = rec
	m.byKey[key] = rec.ID
	return rec, nil
}

func (m *MemStore) Get(ctx context.Context, id string) (SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemStore) Find(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey{employeeID: employeeID, month: period.Month, yearStart: period.YearStart}
	id, ok := m.byKey[key]
	if !ok {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return m.records[id], nil
}

func (m *MemStore) UpdateAmountIfUnpaid(ctx context.Context, id string, amount float64) (SalaryRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.Paid {
		return SalaryRecord{}, false, nil
	}
	rec.Amount = amount
	m.records[id] = rec
	return rec, true, nil
}

func (m *MemStore) MarkPaidIfUnpaid(ctx context.Context, id string, paidAt time.Time) (SalaryRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.Paid || rec.Amount <= 0 {
		return SalaryRecord{}, false, nil
	}
	rec.Paid = true
	rec.PaidAt = &paidAt
	m.records[id] = rec
	return rec, true, nil
}

func (m *MemStore) ListUnpaid(ctx context.Context, period Period) ([]SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []SalaryRecord
	for _, rec := range m.records {
		if rec.Month != period.Month || rec.YearStart != period.YearStart {
			continue
		}
		if rec.Paid || rec.Amount <= 0 {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (m *MemStore) DeleteAllPaid(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, rec := range m.records {
		if !rec.Paid {
			continue
		}
		delete(m.records, id)
		delete(m.byKey, memKey{employeeID: rec.EmployeeID, month: rec.Month, yearStart: rec.YearStart})
		deleted++
	}
	return deleted, nil
}
