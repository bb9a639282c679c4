package outbox

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

const AggregateAttendance = "attendance"

// RetryStep is the backoff unit between failed publish attempts.
const RetryStep = 15 * time.Second

// Attendance lifecycle event types
const (
	EventAttendanceSubmitted  = "attendance.submitted"
	EventAttendanceApproved   = "attendance.approved"
	EventAttendanceRejected   = "attendance.rejected"
	EventAttendanceClockedOut = "attendance.clocked_out"
)

type Event struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       json.RawMessage
	Status        Status
	RetryCount    int
	NextRetryAt   *time.Time
	LastError     *string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// AttendancePayload is the JSON body of attendance lifecycle events.
type AttendancePayload struct {
	EventType    string    `json:"eventType"`
	RequestID    string    `json:"requestId,omitempty"`
	AttendanceID int64     `json:"attendanceId"`
	EmployeeCode string    `json:"employeeCode"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// NextRetryAt spaces retries by RetryStep per attempt, up to ten steps.
func NextRetryAt(now time.Time, retryCount int) time.Time {
	steps := retryCount + 1
	if steps > 10 {
		steps = 10
	}
	return now.Add(time.Duration(steps) * RetryStep)
}
