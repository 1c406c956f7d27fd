package payroll_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sams/internal/domain/payroll"
)

// requires a database with migrations applied; skipped otherwise.
func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createTestEmployee(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
    INSERT INTO employees (first_name, last_name, email, role)
    VALUES ('Test', 'Employee', 'test.employee@example.com', 'teacher')
    RETURNING id
  `).Scan(&id)
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM salary_records WHERE employee_id = $1", id)
		_, _ = pool.Exec(context.Background(), "DELETE FROM employees WHERE id = $1", id)
	})
	return id
}

func TestStoreExclusiveCreate(t *testing.T) {
	pool := integrationPool(t)
	store := payroll.NewStore(pool)
	empID := createTestEmployee(t, pool)
	period := payroll.Period{Month: time.October, YearStart: 2025}
	ctx := context.Background()

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := store.GetOrCreate(ctx, empID, period)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent creates produced distinct records: %q vs %q", ids[i], ids[0])
		}
	}
}

func TestStorePayOnce(t *testing.T) {
	pool := integrationPool(t)
	store := payroll.NewStore(pool)
	ledger := payroll.NewLedger(store)
	empID := createTestEmployee(t, pool)
	period := payroll.Period{Month: time.November, YearStart: 2025}
	ctx := context.Background()

	rec, err := ledger.GetOrCreateRecord(ctx, empID, period)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.SetAmount(ctx, rec.ID, 350000); err != nil {
		t.Fatal(err)
	}

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = ledger.MarkPaid(ctx, rec.ID)
		}(i)
	}
	wg.Wait()

	var paid, alreadyPaid int
	for _, err := range results {
		switch {
		case err == nil:
			paid++
		case errors.Is(err, payroll.ErrAlreadyPaid):
			alreadyPaid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if paid != 1 || alreadyPaid != workers-1 {
		t.Fatalf("got %d payments and %d rejections, want exactly one payment", paid, alreadyPaid)
	}

	// amount is frozen after payment
	if _, err := ledger.SetAmount(ctx, rec.ID, 999999); !errors.Is(err, payroll.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}
