package report

import (
	"context"
	"time"
)

// StatusCounts is the conditional count of records per status.
type StatusCounts struct {
	Total     int64
	Approved  int64
	Submitted int64
	Rejected  int64
}

type EmployeeCounts struct {
	EmployeeCode string
	StatusCounts
}

type EmployeeDetailCounts struct {
	DistinctDays int64
	StatusCounts
}

type DepartmentCounts struct {
	Department     string
	TotalEmployees int64
	StatusCounts
}

// ReportRepository aggregates attendance records whose check-in time falls in
// the inclusive [from, to] window.
type ReportRepository interface {
	// CountByEmployee groups by employee code, ascending. employeeCode narrows
	// the scan to one employee when non-nil.
	CountByEmployee(ctx context.Context, from, to time.Time, employeeCode *string) ([]EmployeeCounts, error)

	CountForEmployee(ctx context.Context, employeeCode string, from, to time.Time) (EmployeeDetailCounts, error)

	// CountByDepartment skips employees without a department
	CountByDepartment(ctx context.Context, from, to time.Time) ([]DepartmentCounts, error)
}
