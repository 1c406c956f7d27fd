package payroll

import (
	"fmt"
	"time"
)

// AcademicYearStartMonth is the month a new academic year begins.
const AcademicYearStartMonth = time.August

// Period identifies one payroll cycle: a calendar month within an
// academic year, keyed by the year the academic year started. One
// salary record exists per employee per period.
type Period struct {
	Month     time.Month `json:"month"`
	YearStart int        `json:"yearStart"`
}

// ResolvePeriod maps a reference date to the payroll period active on
// that date. Dates from August onward belong to the academic year
// starting that calendar year; earlier dates belong to the academic
// year that started the previous August. July 31 and August 1 of the
// same calendar year therefore resolve to different academic years.
func ResolvePeriod(ref time.Time) Period {
	yearStart := ref.Year()
	if ref.Month() < AcademicYearStartMonth {
		yearStart--
	}
	return Period{Month: ref.Month(), YearStart: yearStart}
}

// Label returns the academic year label, e.g. "2025/2026".
func (p Period) Label() string {
	return fmt.Sprintf("%d/%d", p.YearStart, p.YearStart+1)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %s", p.Month, p.Label())
}

// Valid reports whether the period carries a usable month and year.
func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.YearStart > 0
}
