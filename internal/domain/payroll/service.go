package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// EmployeeDirectory is what the payroll core requires from the
// employee collaborator: existence checks and display info.
type EmployeeDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	Info(ctx context.Context, id string) (EmployeeInfo, error)
}

// Notifier receives payment events after a successful pay transition.
// Delivery failures do not undo the payment.
type Notifier interface {
	NotifyPayment(ctx context.Context, event PaymentEvent) error
}

// Service is the payroll orchestrator: the use-case layer composing
// the period resolver, the salary ledger and the computation engine.
type Service struct {
	ledger     *Ledger
	directory  EmployeeDirectory
	structures StructureSource
	notifier   Notifier
}

func NewService(ledger *Ledger, directory EmployeeDirectory, structures StructureSource, notifier Notifier) *Service {
	return &Service{ledger: ledger, directory: directory, structures: structures, notifier: notifier}
}

// SetSalaryForPeriod resolves the period active on refDate, creates
// the ledger record when missing and sets its gross amount.
func (s *Service) SetSalaryForPeriod(ctx context.Context, employeeID string, amount float64, refDate time.Time) (SalaryRecord, error) {
	exists, err := s.directory.Exists(ctx, employeeID)
	if err != nil {
		return SalaryRecord{}, fmt.Errorf("employee lookup: %w", err)
	}
	if !exists {
		return SalaryRecord{}, ErrEmployeeNotFound
	}

	period := ResolvePeriod(refDate)
	rec, err := s.ledger.GetOrCreateRecord(ctx, employeeID, period)
	if err != nil {
		return SalaryRecord{}, err
	}
	return s.ledger.SetAmount(ctx, rec.ID, amount)
}

// PaySalary marks the record for (employee, period) as paid. Paying a
// period with no record is an error; it does not create one. On
// success the payment event goes to the notifier, whose failure is
// logged, not propagated.
func (s *Service) PaySalary(ctx context.Context, employeeID string, period Period) (SalaryRecord, error) {
	rec, err := s.ledger.FindRecord(ctx, employeeID, period)
	if errors.Is(err, ErrRecordNotFound) {
		return SalaryRecord{}, ErrNoSalarySet
	}
	if err != nil {
		return SalaryRecord{}, err
	}

	paid, err := s.ledger.MarkPaid(ctx, rec.ID)
	if err != nil {
		return SalaryRecord{}, err
	}

	if s.notifier != nil && paid.PaidAt != nil {
		event := PaymentEvent{
			EmployeeID: paid.EmployeeID,
			Period:     paid.Period(),
			Amount:     paid.Amount,
			PaidAt:     *paid.PaidAt,
		}
		if nerr := s.notifier.NotifyPayment(ctx, event); nerr != nil {
			slog.Warn("payment notification failed", "employeeId", paid.EmployeeID, "period", paid.Period().String(), "err", nerr)
		}
	}
	return paid, nil
}

// RenderPayslip recomputes the payslip document for (employee,
// period). A structure override, when given, replaces the institution
// default for this render only.
func (s *Service) RenderPayslip(ctx context.Context, employeeID string, period Period, override *Structure) (Payslip, error) {
	rec, err := s.ledger.FindRecord(ctx, employeeID, period)
	if errors.Is(err, ErrRecordNotFound) {
		return Payslip{}, ErrNoSalarySet
	}
	if err != nil {
		return Payslip{}, err
	}
	if rec.Amount <= 0 {
		return Payslip{}, ErrNoSalarySet
	}

	info, err := s.directory.Info(ctx, employeeID)
	if err != nil {
		return Payslip{}, err
	}

	var structure Structure
	if override != nil {
		if err := override.Validate(); err != nil {
			return Payslip{}, err
		}
		structure = *override
	} else {
		structure, err = s.structures.Current(ctx)
		if err != nil {
			return Payslip{}, err
		}
	}
	if !info.IncludeSocialInsurance {
		structure = structure.WithoutItem(CodeSocialInsurance)
	}

	return Payslip{
		EmployeeID:       rec.EmployeeID,
		EmployeeName:     info.Name,
		EmploymentNumber: info.EmploymentNumber,
		Period:           period,
		PeriodLabel:      period.String(),
		Paid:             rec.Paid,
		PaidAt:           rec.PaidAt,
		Computed:         ComputePayslip(rec.Amount, structure),
	}, nil
}

// ListPayableEmployees returns everyone holding a non-zero, unpaid
// record for exactly that period. An employee paid for one month still
// shows up as payable for the next.
func (s *Service) ListPayableEmployees(ctx context.Context, period Period) ([]PayableEmployee, error) {
	records, err := s.ledger.ListUnpaid(ctx, period)
	if err != nil {
		return nil, err
	}

	payable := make([]PayableEmployee, 0, len(records))
	for _, rec := range records {
		info, err := s.directory.Info(ctx, rec.EmployeeID)
		if errors.Is(err, ErrEmployeeNotFound) {
			slog.Warn("salary record without directory entry", "employeeId", rec.EmployeeID, "recordId", rec.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		payable = append(payable, PayableEmployee{
			EmployeeID:       rec.EmployeeID,
			Name:             info.Name,
			EmploymentNumber: info.EmploymentNumber,
			RecordID:         rec.ID,
			Amount:           rec.Amount,
		})
	}
	return payable, nil
}

// ResetPaidRecords is the administrative bulk-clear of paid records.
func (s *Service) ResetPaidRecords(ctx context.Context) (int64, error) {
	return s.ledger.DeleteAllPaid(ctx)
}
