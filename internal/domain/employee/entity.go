package employee

import "time"

type Employee struct {
	Code       string
	Email      string
	FullName   string
	Department *string
	Position   *string
	JoinDate   *time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Identity is the read-only view other domains decorate their results with.
type Identity struct {
	EmployeeCode string  `json:"employeeCode"`
	FullName     string  `json:"fullName"`
	Department   *string `json:"department"`
	Position     *string `json:"position,omitempty"`
}

func (e Employee) Identity() Identity {
	return Identity{
		EmployeeCode: e.Code,
		FullName:     e.FullName,
		Department:   e.Department,
		Position:     e.Position,
	}
}
