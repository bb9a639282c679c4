package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/outbox"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/contextutil"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	events     outbox.OutboxRepository
	clock      clock.Clock
	eventTopic string
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	outboxRepository outbox.OutboxRepository,
	clk clock.Clock,
	eventTopic string,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		events:               outboxRepository,
		clock:                clk,
		eventTopic:           eventTopic,
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := formatTime(*t)
	return &format
}

func toResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                att.ID,
		EmployeeCode:      att.EmployeeCode,
		EmployeeName:      att.EmployeeName,
		Department:        att.Department,
		CheckInTime:       formatTime(att.CheckInTime),
		CheckOutTime:      timePtrToString(att.CheckOutTime),
		PhotoURL:          att.PhotoURL,
		CheckOutPhotoURL:  att.CheckOutPhotoURL,
		TotalWorkingHours: att.TotalWorkingHours,
		Status:            att.Status,
		RejectionReason:   att.RejectionReason,
		CreatedAt:         formatTime(att.CreatedAt),
		UpdatedAt:         formatTime(att.UpdatedAt),
	}
}

// Submit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Submit(ctx context.Context, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitResponse{}, err
	}

	// Check-in time is always taken from the server clock
	now := clock.Now(s.clock)
	photoURL := req.PhotoURL

	var created attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeCode: req.EmployeeCode,
			CheckInTime:  now,
			PhotoURL:     &photoURL,
			Status:       attendance.StatusSubmitted,
		})
		if err != nil {
			return err
		}
		return s.recordEvent(ctx, outbox.EventAttendanceSubmitted, created.ID, created.EmployeeCode, created.Status, now)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateAttendance) {
			slog.InfoContext(ctx, "duplicate attendance submission", "employee_code", req.EmployeeCode)
			return attendance.SubmitResponse{}, err
		}
		return attendance.SubmitResponse{}, fmt.Errorf("failed to submit attendance: %w", err)
	}

	slog.InfoContext(ctx, "attendance submitted", "attendance_id", created.ID, "employee_code", created.EmployeeCode)
	return attendance.SubmitResponse{
		ID:      created.ID,
		Message: "Attendance submitted successfully",
	}, nil
}

// Approve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Approve(ctx context.Context, id int64) (attendance.StatusResponse, error) {
	if err := s.transition(ctx, id, attendance.StatusApproved, nil, attendance.ErrCannotApprove); err != nil {
		return attendance.StatusResponse{}, err
	}

	return attendance.StatusResponse{
		ID:      id,
		Status:  attendance.StatusApproved,
		Message: "Attendance approved",
	}, nil
}

// Reject implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Reject(ctx context.Context, req attendance.RejectRequest) (attendance.StatusResponse, error) {
	// Reason is checked before the store is touched. It is stored as sent.
	if strings.TrimSpace(req.Reason) == "" {
		return attendance.StatusResponse{}, attendance.ErrRejectionReasonRequired
	}
	reason := req.Reason

	if err := s.transition(ctx, req.ID, attendance.StatusRejected, &reason, attendance.ErrCannotReject); err != nil {
		return attendance.StatusResponse{}, err
	}

	return attendance.StatusResponse{
		ID:              req.ID,
		Status:          attendance.StatusRejected,
		RejectionReason: &reason,
		Message:         "Attendance rejected",
	}, nil
}

// transition applies submitted -> to as a single conditional update. When no
// row changes, the record is re-read to tell a missing record from one that
// already left the submitted state.
func (s *AttendanceServiceImpl) transition(ctx context.Context, id int64, to attendance.Status, reason *string, invalid error) error {
	from := attendance.StatusSubmitted
	if !from.CanTransitionTo(to) {
		return invalid
	}

	now := clock.Now(s.clock)

	eventType := outbox.EventAttendanceApproved
	if to == attendance.StatusRejected {
		eventType = outbox.EventAttendanceRejected
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		changed, err := s.AttendanceRepository.TransitionStatus(ctx, id, from, to, reason, now)
		if err != nil {
			return err
		}

		current, err := s.AttendanceRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !changed {
			return invalid
		}

		return s.recordEvent(ctx, eventType, current.ID, current.EmployeeCode, to, now)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) || errors.Is(err, invalid) {
			return err
		}
		return fmt.Errorf("failed to update attendance status: %w", err)
	}

	slog.InfoContext(ctx, "attendance status changed", "attendance_id", id, "status", to)
	return nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	now := clock.Now(s.clock)

	var resp attendance.ClockOutResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.AttendanceRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		// Another employee's record is reported as missing
		if current.EmployeeCode != req.EmployeeCode {
			return attendance.ErrAttendanceNotFound
		}
		if current.IsClockedOut() {
			return attendance.ErrAlreadyClockedOut
		}

		totalWorkingHours := attendance.FormatWorkingHours(current.CheckInTime, now)
		changed, err := s.AttendanceRepository.ClockOut(ctx, attendance.ClockOutParams{
			ID:                req.ID,
			EmployeeCode:      req.EmployeeCode,
			CheckOutTime:      now,
			CheckOutPhotoURL:  req.CheckOutPhotoURL,
			TotalWorkingHours: totalWorkingHours,
		})
		if err != nil {
			return err
		}
		if !changed {
			// Lost the race against a concurrent clock-out of the same record
			return attendance.ErrAlreadyClockedOut
		}

		resp = attendance.ClockOutResponse{
			ID:                current.ID,
			CheckInTime:       formatTime(current.CheckInTime),
			CheckOutTime:      formatTime(now),
			TotalWorkingHours: totalWorkingHours,
			Message:           "Clock out successful",
		}
		return s.recordEvent(ctx, outbox.EventAttendanceClockedOut, current.ID, current.EmployeeCode, current.Status, now)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) || errors.Is(err, attendance.ErrAlreadyClockedOut) {
			return attendance.ClockOutResponse{}, err
		}
		return attendance.ClockOutResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	slog.InfoContext(ctx, "attendance clocked out", "attendance_id", resp.ID, "total_working_hours", resp.TotalWorkingHours)
	return resp, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeCode string) (*attendance.AttendanceResponse, error) {
	start, end := clock.DayBounds(clock.Now(s.clock))

	att, err := s.AttendanceRepository.FindByEmployeeBetween(ctx, employeeCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	resp := toResponse(*att)
	return &resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeCode string, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	filter, err := query.Filter(clock.Now(s.clock).Location())
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeCode = &employeeCode

	return s.list(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	filter, err := query.Filter(clock.Now(s.clock).Location())
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		data = append(data, toResponse(att))
	}

	return attendance.ListAttendanceResponse{
		Data:       data,
		Pagination: attendance.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *AttendanceServiceImpl) recordEvent(ctx context.Context, eventType string, id int64, employeeCode string, status attendance.Status, occurredAt time.Time) error {
	requestID := contextutil.GetRequestID(ctx)

	payload, err := json.Marshal(outbox.AttendancePayload{
		EventType:    eventType,
		RequestID:    requestID,
		AttendanceID: id,
		EmployeeCode: employeeCode,
		Status:       string(status),
		OccurredAt:   occurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return s.events.Create(ctx, outbox.Event{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: outbox.AggregateAttendance,
		AggregateID:   fmt.Sprintf("%d", id),
		EventType:     eventType,
		Topic:         s.eventTopic,
		Payload:       payload,
		Status:        outbox.StatusPending,
		CreatedAt:     occurredAt,
	})
}
