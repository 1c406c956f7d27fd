package employees

import "time"

const (
	StatusActive = "active"
	StatusLeft   = "left"

	RoleTeacher = "teacher"
	RoleBursar  = "bursar"
	RoleAdmin   = "admin"
	RoleSupport = "support"
)

// Employee is one staff member of the institution. The payroll core
// references employees only by id; CNPS participation is held here as
// the single authoritative flag with no client-side shadow copy.
type Employee struct {
	ID                     string    `json:"id"`
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	Role                   string    `json:"role"`
	IncludeSocialInsurance bool      `json:"includeSocialInsurance"`
	Status                 string    `json:"status"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (e Employee) DisplayName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
