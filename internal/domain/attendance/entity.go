package attendance

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// IsTerminal reports whether no further status transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo allows submitted -> approved and submitted -> rejected only.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusSubmitted && next.IsTerminal()
}

type Attendance struct {
	ID                int64
	EmployeeCode      string
	CheckInDate       time.Time
	CheckInTime       time.Time
	CheckOutTime      *time.Time
	PhotoURL          *string
	CheckOutPhotoURL  *string
	TotalWorkingHours *string
	Status            Status
	RejectionReason   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / Join
	EmployeeName *string
	Department   *string
}

func (a *Attendance) IsClockedOut() bool {
	return a.CheckOutTime != nil
}

// FormatWorkingHours renders the elapsed time between check-in and check-out
// as "<H>h <M>m" using whole minutes. Negative spans clamp to "0h 0m".
func FormatWorkingHours(checkIn, checkOut time.Time) string {
	minutes := int64(checkOut.Sub(checkIn) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
