package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a submitted record. A second record for the same employee
	// and check-in date fails with ErrDuplicateAttendance.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrAttendanceNotFound when no record has the id
	GetByID(ctx context.Context, id int64) (Attendance, error)

	// FindByEmployeeBetween returns the employee's record whose check-in time
	// falls in [from, to], or nil
	FindByEmployeeBetween(ctx context.Context, employeeCode string, from, to time.Time) (*Attendance, error)

	// TransitionStatus moves a record from `from` to `to` only if it is still
	// in `from`. It reports whether a row was changed.
	TransitionStatus(ctx context.Context, id int64, from, to Status, reason *string, updatedAt time.Time) (bool, error)

	// ClockOut sets the check-out fields only if the record belongs to
	// employeeCode and has no check-out yet. It reports whether a row was changed.
	ClockOut(ctx context.Context, params ClockOutParams) (bool, error)

	// List returns one page of records and the total matching count
	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)
}

type ClockOutParams struct {
	ID                int64
	EmployeeCode      string
	CheckOutTime      time.Time
	CheckOutPhotoURL  *string
	TotalWorkingHours string
}

// ListFilter is the validated form of a list query. Dates are whole days and
// both bounds are inclusive.
type ListFilter struct {
	EmployeeCode *string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
