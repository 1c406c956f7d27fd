package payroll

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeDirectory struct {
	employees map[string]EmployeeInfo
}

func (d *fakeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := d.employees[id]
	return ok, nil
}

func (d *fakeDirectory) Info(ctx context.Context, id string) (EmployeeInfo, error) {
	info, ok := d.employees[id]
	if !ok {
		return EmployeeInfo{}, ErrEmployeeNotFound
	}
	return info, nil
}

type fakeNotifier struct {
	events []PaymentEvent
	fail   bool
}

func (n *fakeNotifier) NotifyPayment(ctx context.Context, event PaymentEvent) error {
	if n.fail {
		return errors.New("sink unavailable")
	}
	n.events = append(n.events, event)
	return nil
}

func newTestService(notifier Notifier) (*Service, *fakeDirectory) {
	directory := &fakeDirectory{employees: map[string]EmployeeInfo{
		"emp-1": {ID: "emp-1", Name: "Jules Tchoua", EmploymentNumber: "EMP-04521", IncludeSocialInsurance: true},
		"emp-2": {ID: "emp-2", Name: "Marie Ngo", EmploymentNumber: "EMP-11934", IncludeSocialInsurance: false},
	}}
	structures := StructureFunc(func(ctx context.Context) (Structure, error) {
		return DefaultStructure(), nil
	})
	svc := NewService(NewLedger(NewMemStore()), directory, structures, notifier)
	return svc, directory
}

func refDate() time.Time {
	return time.Date(2025, time.October, 5, 9, 0, 0, 0, time.UTC)
}

func TestSetSalaryForPeriod(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	rec, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate())
	if err != nil {
		t.Fatalf("set salary failed: %v", err)
	}
	if rec.Month != time.October || rec.YearStart != 2025 {
		t.Fatalf("unexpected period on record: %s %d", rec.Month, rec.YearStart)
	}
	if rec.Amount != 500000 {
		t.Fatalf("expected amount 500000, got %v", rec.Amount)
	}

	if _, err := svc.SetSalaryForPeriod(ctx, "ghost", 100, refDate()); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestPaySalary(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _ := newTestService(notifier)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.PaySalary(ctx, "emp-1", period); !errors.Is(err, ErrNoSalarySet) {
		t.Fatalf("paying an unset period must fail with ErrNoSalarySet, got %v", err)
	}

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}

	paid, err := svc.PaySalary(ctx, "emp-1", period)
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if !paid.Paid || paid.PaidAt == nil {
		t.Fatalf("expected paid record, got %+v", paid)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected one payment event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.EmployeeID != "emp-1" || event.Amount != 500000 || event.Period != period {
		t.Fatalf("unexpected payment event %+v", event)
	}

	if _, err := svc.PaySalary(ctx, "emp-1", period); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid on re-pay, got %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatal("failed payment must not emit an event")
	}
}

func TestPaySalaryNotifierFailureDoesNotUndoPayment(t *testing.T) {
	svc, _ := newTestService(&fakeNotifier{fail: true})
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}
	paid, err := svc.PaySalary(ctx, "emp-1", period)
	if err != nil {
		t.Fatalf("pay must succeed despite notifier failure, got %v", err)
	}
	if !paid.Paid {
		t.Fatal("record must be paid")
	}
}

func TestRenderPayslip(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.RenderPayslip(ctx, "emp-1", period, nil); !errors.Is(err, ErrNoSalarySet) {
		t.Fatalf("expected ErrNoSalarySet for unset period, got %v", err)
	}

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}

	slip, err := svc.RenderPayslip(ctx, "emp-1", period, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if slip.EmployeeName != "Jules Tchoua" {
		t.Fatalf("unexpected employee name %q", slip.EmployeeName)
	}
	if slip.PeriodLabel != "October 2025/2026" {
		t.Fatalf("unexpected period label %q", slip.PeriodLabel)
	}
	if slip.Computed.Gross != 500000 {
		t.Fatalf("expected gross 500000, got %v", slip.Computed.Gross)
	}
	// default structure credits sum to 100%
	if slip.Computed.GrossCreditTotal != 500000 {
		t.Fatalf("expected credit total 500000, got %v", slip.Computed.GrossCreditTotal)
	}
	if slip.Computed.TotalDebit == 0 {
		t.Fatal("expected CNPS debit for an included employee")
	}
}

func TestRenderPayslipDropsSocialInsuranceForExempt(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-2", 300000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}

	slip, err := svc.RenderPayslip(ctx, "emp-2", period, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if slip.Computed.TotalDebit != 0 {
		t.Fatalf("exempt employee must have no CNPS debit, got %v", slip.Computed.TotalDebit)
	}
	for _, section := range slip.Computed.Sections {
		for _, item := range section.Items {
			if item.Code == CodeSocialInsurance {
				t.Fatal("CNPS line must be removed for an exempt employee")
			}
		}
	}
}

func TestRenderPayslipWithOverrideStructure(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 100000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}

	override := Structure{Sections: []Section{{
		Title: "Flat",
		Items: []Item{{Code: "ALL", Label: "All in", Percent: pct(100)}},
	}}}
	slip, err := svc.RenderPayslip(ctx, "emp-1", period, &override)
	if err != nil {
		t.Fatalf("render with override failed: %v", err)
	}
	if slip.Computed.NetPay != 100000 {
		t.Fatalf("expected net 100000 under override, got %v", slip.Computed.NetPay)
	}

	bad := Structure{}
	if _, err := svc.RenderPayslip(ctx, "emp-1", period, &bad); !errors.Is(err, ErrEmptyStructure) {
		t.Fatalf("expected ErrEmptyStructure for invalid override, got %v", err)
	}
}

func TestListPayableEmployees(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}
	if _, err := svc.SetSalaryForPeriod(ctx, "emp-2", 300000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}

	payable, err := svc.ListPayableEmployees(ctx, period)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payable) != 2 {
		t.Fatalf("expected 2 payable employees, got %d", len(payable))
	}

	if _, err := svc.PaySalary(ctx, "emp-1", period); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	payable, err = svc.ListPayableEmployees(ctx, period)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payable) != 1 || payable[0].EmployeeID != "emp-2" {
		t.Fatalf("expected only emp-2 payable, got %+v", payable)
	}

	nextMonth := Period{Month: time.November, YearStart: 2025}
	nextPayable, err := svc.ListPayableEmployees(ctx, nextMonth)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(nextPayable) != 0 {
		t.Fatalf("no salary set for November yet, got %+v", nextPayable)
	}
}

func TestResetPaidRecords(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	period := ResolvePeriod(refDate())

	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary failed: %v", err)
	}
	if _, err := svc.PaySalary(ctx, "emp-1", period); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	deleted, err := svc.ResetPaidRecords(ctx)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 cleared record, got %d", deleted)
	}

	// the period is payable again once an amount is set anew
	if _, err := svc.SetSalaryForPeriod(ctx, "emp-1", 500000, refDate()); err != nil {
		t.Fatalf("set salary after reset failed: %v", err)
	}
	if _, err := svc.PaySalary(ctx, "emp-1", period); err != nil {
		t.Fatalf("pay after reset failed: %v", err)
	}
}
