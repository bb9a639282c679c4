package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Submits and clocks out own attendance
	RoleHRAdmin  Role = "hr_admin" // Reviews attendance and reads reports
)

// ParseRole accepts only the closed set of known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleHRAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	EmployeeCode string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
