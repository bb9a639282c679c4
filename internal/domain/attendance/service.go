package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Submit records a check-in for the employee at the current instant
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)

	// Approve moves a submitted record to approved
	Approve(ctx context.Context, id int64) (StatusResponse, error)

	// Reject moves a submitted record to rejected with a reason
	Reject(ctx context.Context, req RejectRequest) (StatusResponse, error)

	// ClockOut records the employee's check-out and working hours
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockOutResponse, error)

	// GetToday returns the employee's record for the current day, or nil
	GetToday(ctx context.Context, employeeCode string) (*AttendanceResponse, error)

	// GetMyAttendance lists the employee's own records, most recent first
	GetMyAttendance(ctx context.Context, employeeCode string, query ListQuery) (ListAttendanceResponse, error)

	// ListAttendance lists every employee's records (HR admin view)
	ListAttendance(ctx context.Context, query ListQuery) (ListAttendanceResponse, error)
}
