package employees

import "fmt"

// EmploymentNumber derives the five-digit employment reference shown
// on payslips from an employee id. The multiplier and offset come from
// the institution's legacy numbering scheme; the result is a
// deterministic hash of the id, not a random number, so the same
// employee always gets the same reference.
func EmploymentNumber(employeeID string) string {
	var n uint64
	for _, b := range []byte(employeeID) {
		n = n*31 + uint64(b)
	}
	n = (n*9301 + 49297) % 100000
	return fmt.Sprintf("EMP-%05d", n)
}
