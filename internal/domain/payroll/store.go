package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres ledger store. The salary_records table carries
// a unique constraint on (employee_id, month, year_start); conditional
// updates are guarded in SQL so the paid transition is a single
// compare-and-set.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = "id, employee_id, month, year_start, amount, paid, paid_at, created_at"

func scanRecord(row pgx.Row) (SalaryRecord, error) {
	var rec SalaryRecord
	var month int
	err := row.Scan(&rec.ID, &rec.EmployeeID, &month, &rec.YearStart, &rec.Amount, &rec.Paid, &rec.PaidAt, &rec.CreatedAt)
	if err != nil {
		return SalaryRecord{}, err
	}
	rec.Month = time.Month(month)
	return rec, nil
}

func (s *Store) GetOrCreate(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO salary_records (employee_id, month, year_start)
    VALUES ($1,$2,$3)
    ON CONFLICT (employee_id, month, year_start) DO NOTHING
    RETURNING `+recordColumns+`
  `, employeeID, int(period.Month), period.YearStart))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, err
	}
	// conflict: someone already created it, resolve to theirs
	return s.Find(ctx, employeeID, period)
}

func (s *Store) Get(ctx context.Context, id string) (SalaryRecord, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+` FROM salary_records WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) Find(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM salary_records
    WHERE employee_id = $1 AND month = $2 AND year_start = $3
  `, employeeID, int(period.Month), period.YearStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) UpdateAmountIfUnpaid(ctx context.Context, id string, amount float64) (SalaryRecord, bool, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE salary_records SET amount = $2
    WHERE id = $1 AND paid = false
    RETURNING `+recordColumns+`
  `, id, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, false, nil
	}
	if err != nil {
		return SalaryRecord{}, false, err
	}
	return rec, true, nil
}

func (s *Store) MarkPaidIfUnpaid(ctx context.Context, id string, paidAt time.Time) (SalaryRecord, bool, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE salary_records SET paid = true, paid_at = $2
    WHERE id = $1 AND paid = false AND amount > 0
    RETURNING `+recordColumns+`
  `, id, paidAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, false, nil
	}
	if err != nil {
		return SalaryRecord{}, false, err
	}
	return rec, true, nil
}

func (s *Store) ListUnpaid(ctx context.Context, period Period) ([]SalaryRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM salary_records
    WHERE month = $1 AND year_start = $2 AND paid = false AND amount > 0
    ORDER BY created_at
  `, int(period.Month), period.YearStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SalaryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) DeleteAllPaid(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_records WHERE paid = true")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
