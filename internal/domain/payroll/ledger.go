package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Ledger enforces the salary record invariants on top of a store: one
// record per (employee, period), amount mutable only while unpaid, and
// a pay-once transition. Failed mutations leave the record unchanged.
type Ledger struct {
	store LedgerStore
	now   func() time.Time
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// GetOrCreateRecord returns the record for (employee, period),
// creating an empty unpaid one when none exists. Creation is
// exclusive: concurrent calls for the same key resolve to one record.
func (l *Ledger) GetOrCreateRecord(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	if !period.Valid() {
		return SalaryRecord{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, period)
	}
	return l.store.GetOrCreate(ctx, employeeID, period)
}

func (l *Ledger) Record(ctx context.Context, id string) (SalaryRecord, error) {
	return l.store.Get(ctx, id)
}

func (l *Ledger) FindRecord(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	return l.store.Find(ctx, employeeID, period)
}

// SetAmount updates the gross amount of an unpaid record.
func (l *Ledger) SetAmount(ctx context.Context, id string, amount float64) (SalaryRecord, error) {
	if amount < 0 {
		return SalaryRecord{}, ErrInvalidAmount
	}
	rec, matched, err := l.store.UpdateAmountIfUnpaid(ctx, id, amount)
	if err != nil {
		return SalaryRecord{}, err
	}
	if !matched {
		return SalaryRecord{}, l.explainRejection(ctx, id, false)
	}
	return rec, nil
}

// MarkPaid transitions an unpaid, non-zero record to paid and stamps
// paid_at. The store guard makes this a compare-and-set: with N
// concurrent callers exactly one succeeds and the rest get
// ErrAlreadyPaid.
func (l *Ledger) MarkPaid(ctx context.Context, id string) (SalaryRecord, error) {
	rec, matched, err := l.store.MarkPaidIfUnpaid(ctx, id, l.now().UTC())
	if err != nil {
		return SalaryRecord{}, err
	}
	if !matched {
		return SalaryRecord{}, l.explainRejection(ctx, id, true)
	}
	return rec, nil
}

// ListUnpaid returns the non-zero, unpaid records for a period.
func (l *Ledger) ListUnpaid(ctx context.Context, period Period) ([]SalaryRecord, error) {
	return l.store.ListUnpaid(ctx, period)
}

// DeleteAllPaid bulk-clears paid records, leaving unpaid ones alone.
func (l *Ledger) DeleteAllPaid(ctx context.Context) (int64, error) {
	return l.store.DeleteAllPaid(ctx)
}

// explainRejection re-reads the record after a conditional update
// matched nothing and maps the state to the business error. The read
// is only for classification; the mutation already did not happen.
func (l *Ledger) explainRejection(ctx context.Context, id string, forPay bool) error {
	rec, err := l.store.Get(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if err != nil {
		return err
	}
	if rec.Paid {
		return ErrAlreadyPaid
	}
	if forPay && rec.Amount <= 0 {
		return ErrZeroAmount
	}
	return fmt.Errorf("salary record %s rejected update", id)
}
