package payroll

import (
	"context"
	"time"
)

// LedgerStore is the persistence boundary for salary records. The
// conditional mutations must be atomic: UpdateAmountIfUnpaid and
// MarkPaidIfUnpaid report matched=false when the guard did not hold,
// without changing the row. Exactly one of N concurrent
// MarkPaidIfUnpaid calls on the same record may observe matched=true.
type LedgerStore interface {
	GetOrCreate(ctx context.Context, employeeID string, period Period) (SalaryRecord, error)
	Get(ctx context.Context, id string) (SalaryRecord, error)
	Find(ctx context.Context, employeeID string, period Period) (SalaryRecord, error)
	UpdateAmountIfUnpaid(ctx context.Context, id string, amount float64) (SalaryRecord, bool, error)
	MarkPaidIfUnpaid(ctx context.Context, id string, paidAt time.Time) (SalaryRecord, bool, error)
	ListUnpaid(ctx context.Context, period Period) ([]SalaryRecord, error)
	DeleteAllPaid(ctx context.Context) (int64, error)
}
