package payroll

import "errors"

var (
	ErrInvalidAmount    = errors.New("salary amount must not be negative")
	ErrInvalidPeriod    = errors.New("period does not name a calendar month within its school year")
	ErrInvalidPercent   = errors.New("structure percent must be within 0 and 100")
	ErrEmptyStructure   = errors.New("payslip structure has no sections")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrRecordNotFound   = errors.New("salary record not found")
	ErrNoSalarySet      = errors.New("no salary set for this period")
	ErrAlreadyPaid      = errors.New("salary already paid for this period")
	ErrZeroAmount       = errors.New("salary record has no amount to pay")
)
