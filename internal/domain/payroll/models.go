package payroll

import "time"

// SalaryRecord is one row of the salary ledger: the gross amount set
// for one employee in one payroll period, and its payment state. Once
// Paid is true the record is immutable except for bulk clearing.
type SalaryRecord struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Month      time.Month `json:"month"`
	YearStart  int        `json:"yearStart"`
	Amount     float64    `json:"amount"`
	Paid       bool       `json:"paid"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (r SalaryRecord) Period() Period {
	return Period{Month: r.Month, YearStart: r.YearStart}
}

// PaymentEvent is emitted after a successful MarkPaid transition and
// consumed by the notification sink to produce a receipt.
type PaymentEvent struct {
	EmployeeID string    `json:"employeeId"`
	Period     Period    `json:"period"`
	Amount     float64   `json:"amount"`
	PaidAt     time.Time `json:"paidAt"`
}

// PayableEmployee is one entry of the "who can still be paid this
// period" listing: a non-zero, unpaid salary record joined with the
// employee's display info.
type PayableEmployee struct {
	EmployeeID       string  `json:"employeeId"`
	Name             string  `json:"name"`
	EmploymentNumber string  `json:"employmentNumber"`
	RecordID         string  `json:"recordId"`
	Amount           float64 `json:"amount"`
}

// EmployeeInfo is what the payroll core needs from the employee
// directory collaborator to label a payslip.
type EmployeeInfo struct {
	ID                     string
	Name                   string
	Email                  string
	EmploymentNumber       string
	IncludeSocialInsurance bool
}

// Payslip is the rendered document returned to callers: the computed
// amounts plus the identity fields needed for display or export. It is
// recomputed on every request and never persisted.
type Payslip struct {
	EmployeeID       string          `json:"employeeId"`
	EmployeeName     string          `json:"employeeName"`
	EmploymentNumber string          `json:"employmentNumber"`
	Period           Period          `json:"period"`
	PeriodLabel      string          `json:"periodLabel"`
	Paid             bool            `json:"paid"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	Computed         ComputedPayslip `json:"computed"`
}
