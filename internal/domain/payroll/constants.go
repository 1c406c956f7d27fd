package payroll

const (
	// CodeSocialInsurance marks the CNPS contribution line in a
	// payslip structure. Employees flagged as exempt have this item
	// removed before computation.
	CodeSocialInsurance = "CNPS"

	WarningNegativeNet = "negative_net"

	ActionSalarySet   = "salary.amount_set"
	ActionSalaryPaid  = "salary.paid"
	ActionPaidCleared = "salary.paid_cleared"
)
