package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/outbox"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/contextutil"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
)

const testTopic = "attendance.events"

type testDeps struct {
	svc    attendance.AttendanceService
	repo   *fakeAttendanceRepository
	events *fakeOutboxRepository
	clock  *clockwork.FakeClock
}

func setup(t *testing.T, start time.Time) testDeps {
	t.Helper()
	repo := newFakeAttendanceRepository()
	events := &fakeOutboxRepository{}
	fc := clockwork.NewFakeClockAt(start)
	return testDeps{
		svc:    NewAttendanceService(inlineTransactor{}, repo, events, fc, testTopic),
		repo:   repo,
		events: events,
		clock:  fc,
	}
}

func nineAM() time.Time {
	return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
}

func submit(t *testing.T, d testDeps, employeeCode string) int64 {
	t.Helper()
	resp, err := d.svc.Submit(context.Background(), attendance.SubmitRequest{
		EmployeeCode: employeeCode,
		PhotoURL:     "http://files.local/files/attendance/ab/abc.jpg",
	})
	require.NoError(t, err)
	return resp.ID
}

func assertAppCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus)
}

func TestSubmit(t *testing.T) {
	t.Run("uses the server clock", func(t *testing.T) {
		d := setup(t, nineAM().Add(123*time.Millisecond))

		resp, err := d.svc.Submit(context.Background(), attendance.SubmitRequest{
			EmployeeCode: "EMP001",
			PhotoURL:     "http://files.local/photo.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, "Attendance submitted successfully", resp.Message)

		rec := d.repo.get(resp.ID)
		assert.Equal(t, nineAM(), rec.CheckInTime)
		assert.Equal(t, attendance.StatusSubmitted, rec.Status)
		assert.Nil(t, rec.CheckOutTime)
		assert.Nil(t, rec.TotalWorkingHours)
	})

	t.Run("second submission on the same day conflicts", func(t *testing.T) {
		d := setup(t, nineAM())
		firstID := submit(t, d, "EMP001")
		first := d.repo.get(firstID)

		d.clock.Advance(3 * time.Hour)
		_, err := d.svc.Submit(context.Background(), attendance.SubmitRequest{
			EmployeeCode: "EMP001",
			PhotoURL:     "http://files.local/other.jpg",
		})

		require.ErrorIs(t, err, attendance.ErrDuplicateAttendance)
		assertAppCode(t, err, apperror.CodeDuplicateAttendance, http.StatusConflict)
		assert.Equal(t, first, d.repo.get(firstID))
		assert.Equal(t, []string{outbox.EventAttendanceSubmitted}, d.events.eventTypes())
	})

	t.Run("next day is allowed", func(t *testing.T) {
		d := setup(t, nineAM())
		submit(t, d, "EMP001")

		d.clock.Advance(24 * time.Hour)
		submit(t, d, "EMP001")
	})

	t.Run("other employees are independent", func(t *testing.T) {
		d := setup(t, nineAM())
		submit(t, d, "EMP001")
		submit(t, d, "EMP002")
	})

	t.Run("photo is required", func(t *testing.T) {
		d := setup(t, nineAM())

		_, err := d.svc.Submit(context.Background(), attendance.SubmitRequest{EmployeeCode: "EMP001"})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "photo", verrs[0].Field)
		assert.Zero(t, d.repo.calls)
	})
}

func TestApproveReject_AreExclusiveTerminalTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("approve then reject", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		resp, err := d.svc.Approve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Attendance approved", resp.Message)
		assert.Equal(t, attendance.StatusApproved, d.repo.get(id).Status)

		_, err = d.svc.Reject(ctx, attendance.RejectRequest{ID: id, Reason: "blurry photo"})
		require.ErrorIs(t, err, attendance.ErrCannotReject)
		assertAppCode(t, err, apperror.CodeInvalidStatusTransition, http.StatusBadRequest)

		_, err = d.svc.Approve(ctx, id)
		require.ErrorIs(t, err, attendance.ErrCannotApprove)
		assertAppCode(t, err, apperror.CodeInvalidStatusTransition, http.StatusBadRequest)

		assert.Equal(t, attendance.StatusApproved, d.repo.get(id).Status)
		assert.Nil(t, d.repo.get(id).RejectionReason)
	})

	t.Run("reject then approve", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		resp, err := d.svc.Reject(ctx, attendance.RejectRequest{ID: id, Reason: "  not at home  "})
		require.NoError(t, err)
		assert.Equal(t, "Attendance rejected", resp.Message)

		rec := d.repo.get(id)
		assert.Equal(t, attendance.StatusRejected, rec.Status)
		require.NotNil(t, rec.RejectionReason)
		assert.Equal(t, "  not at home  ", *rec.RejectionReason)
		require.NotNil(t, resp.RejectionReason)
		assert.Equal(t, "  not at home  ", *resp.RejectionReason)

		_, err = d.svc.Approve(ctx, id)
		require.ErrorIs(t, err, attendance.ErrCannotApprove)

		_, err = d.svc.Reject(ctx, attendance.RejectRequest{ID: id, Reason: "again"})
		require.ErrorIs(t, err, attendance.ErrCannotReject)
	})

	t.Run("missing record", func(t *testing.T) {
		d := setup(t, nineAM())

		_, err := d.svc.Approve(ctx, 404)
		require.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
		assertAppCode(t, err, apperror.CodeNotFound, http.StatusNotFound)

		_, err = d.svc.Reject(ctx, attendance.RejectRequest{ID: 404, Reason: "x"})
		require.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("approval refreshes updatedAt", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		d.clock.Advance(2 * time.Hour)
		_, err := d.svc.Approve(ctx, id)
		require.NoError(t, err)

		rec := d.repo.get(id)
		assert.Equal(t, nineAM().Add(2*time.Hour), rec.UpdatedAt)
		assert.Equal(t, nineAM(), rec.CheckInTime)
	})
}

func TestReject_BlankReasonTouchesNothing(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		t.Run("reason="+reason, func(t *testing.T) {
			d := setup(t, nineAM())
			id := submit(t, d, "EMP001")
			before := d.repo.get(id)
			callsBefore := d.repo.calls

			d.clock.Advance(time.Hour)
			_, err := d.svc.Reject(context.Background(), attendance.RejectRequest{ID: id, Reason: reason})

			require.ErrorIs(t, err, attendance.ErrRejectionReasonRequired)
			assertAppCode(t, err, apperror.CodeValidation, http.StatusBadRequest)
			assert.Equal(t, callsBefore, d.repo.calls)
			assert.Equal(t, before.UpdatedAt, d.repo.get(id).UpdatedAt)
			assert.Equal(t, attendance.StatusSubmitted, d.repo.get(id).Status)
		})
	}

	t.Run("validated before existence", func(t *testing.T) {
		d := setup(t, nineAM())
		_, err := d.svc.Reject(context.Background(), attendance.RejectRequest{ID: 999, Reason: " "})
		require.ErrorIs(t, err, attendance.ErrRejectionReasonRequired)
	})
}

func TestClockOut(t *testing.T) {
	ctx := context.Background()

	t.Run("computes working hours", func(t *testing.T) {
		tests := []struct {
			name    string
			elapsed time.Duration
			want    string
		}{
			{"full day", 8*time.Hour + 30*time.Minute, "8h 30m"},
			{"short session", 45 * time.Minute, "0h 45m"},
			{"partial minute is floored", 59*time.Minute + 59*time.Second, "0h 59m"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := setup(t, nineAM())
				id := submit(t, d, "EMP001")

				d.clock.Advance(tt.elapsed)
				resp, err := d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP001"})
				require.NoError(t, err)

				assert.Equal(t, tt.want, resp.TotalWorkingHours)
				assert.Equal(t, "Clock out successful", resp.Message)
				assert.Equal(t, nineAM().Format(time.RFC3339), resp.CheckInTime)
				assert.Equal(t, nineAM().Add(tt.elapsed).Format(time.RFC3339), resp.CheckOutTime)

				rec := d.repo.get(id)
				require.NotNil(t, rec.TotalWorkingHours)
				assert.Equal(t, tt.want, *rec.TotalWorkingHours)
			})
		}
	})

	t.Run("second clock-out fails and keeps the first", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		d.clock.Advance(8*time.Hour + 30*time.Minute)
		_, err := d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP001"})
		require.NoError(t, err)
		first := d.repo.get(id)

		d.clock.Advance(time.Hour)
		photo := "http://files.local/late.jpg"
		_, err = d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP001", CheckOutPhotoURL: &photo})

		require.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
		assertAppCode(t, err, apperror.CodeAlreadyClockedOut, http.StatusConflict)
		after := d.repo.get(id)
		assert.Equal(t, first.CheckOutTime, after.CheckOutTime)
		assert.Equal(t, first.TotalWorkingHours, after.TotalWorkingHours)
		assert.Nil(t, after.CheckOutPhotoURL)
	})

	t.Run("stores the optional photo", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		photo := "http://files.local/out.jpg"
		d.clock.Advance(time.Hour)
		_, err := d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP001", CheckOutPhotoURL: &photo})
		require.NoError(t, err)

		require.NotNil(t, d.repo.get(id).CheckOutPhotoURL)
		assert.Equal(t, photo, *d.repo.get(id).CheckOutPhotoURL)
	})

	t.Run("does not change status", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")
		_, err := d.svc.Approve(ctx, id)
		require.NoError(t, err)

		d.clock.Advance(time.Hour)
		_, err = d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP001"})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusApproved, d.repo.get(id).Status)
	})

	t.Run("missing record", func(t *testing.T) {
		d := setup(t, nineAM())
		_, err := d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: 77, EmployeeCode: "EMP001"})
		require.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("another employee's record is not found", func(t *testing.T) {
		d := setup(t, nineAM())
		id := submit(t, d, "EMP001")

		_, err := d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: id, EmployeeCode: "EMP002"})
		require.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
		assert.Nil(t, d.repo.get(id).CheckOutTime)
	})
}

func TestGetToday(t *testing.T) {
	ctx := context.Background()
	d := setup(t, nineAM())
	id := submit(t, d, "EMP001")

	d.clock.Advance(14*time.Hour + 59*time.Minute + 59*time.Second) // 23:59:59
	today, err := d.svc.GetToday(ctx, "EMP001")
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, id, today.ID)

	none, err := d.svc.GetToday(ctx, "EMP002")
	require.NoError(t, err)
	assert.Nil(t, none)

	d.clock.Advance(time.Second) // next day 00:00:00
	tomorrow, err := d.svc.GetToday(ctx, "EMP001")
	require.NoError(t, err)
	assert.Nil(t, tomorrow)
}

func TestGetMyAttendance_Pagination(t *testing.T) {
	ctx := context.Background()
	d := setup(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 25; i++ {
		submit(t, d, "EMP001")
		d.clock.Advance(24 * time.Hour)
	}
	submit(t, d, "EMP002")

	resp, err := d.svc.GetMyAttendance(ctx, "EMP001", attendance.ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, resp.Data, 5)
	assert.Equal(t, attendance.PaginationMeta{
		Page:        3,
		Limit:       10,
		Total:       25,
		TotalPages:  3,
		HasNextPage: false,
		HasPrevPage: true,
	}, resp.Pagination)

	// Most recent first: page 3 holds the five oldest days
	assert.Equal(t, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC).Format(time.RFC3339), resp.Data[0].CheckInTime)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339), resp.Data[4].CheckInTime)
	for _, rec := range resp.Data {
		assert.Equal(t, "EMP001", rec.EmployeeCode)
	}
}

func TestListAttendance(t *testing.T) {
	ctx := context.Background()
	d := setup(t, time.Date(2024, 2, 27, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 4; i++ { // Feb 27, 28, 29, Mar 1
		submit(t, d, "EMP001")
		submit(t, d, "EMP002")
		d.clock.Advance(24 * time.Hour)
	}

	t.Run("unscoped", func(t *testing.T) {
		resp, err := d.svc.ListAttendance(ctx, attendance.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(8), resp.Pagination.Total)
		assert.Equal(t, 1, resp.Pagination.TotalPages)
	})

	t.Run("inclusive date range", func(t *testing.T) {
		resp, err := d.svc.ListAttendance(ctx, attendance.ListQuery{StartDate: "2024-02-28", EndDate: "2024-02-29"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Pagination.Total)
	})

	t.Run("inverted range is a validation error", func(t *testing.T) {
		_, err := d.svc.ListAttendance(ctx, attendance.ListQuery{StartDate: "2024-03-01", EndDate: "2024-02-01"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})
}

func TestLifecycleEvents(t *testing.T) {
	d := setup(t, nineAM())
	ctx := contextutil.WithRequestID(context.Background(), "req-123")

	resp, err := d.svc.Submit(ctx, attendance.SubmitRequest{EmployeeCode: "EMP001", PhotoURL: "http://files.local/a.jpg"})
	require.NoError(t, err)

	_, err = d.svc.Approve(ctx, resp.ID)
	require.NoError(t, err)

	d.clock.Advance(8 * time.Hour)
	_, err = d.svc.ClockOut(ctx, attendance.ClockOutRequest{ID: resp.ID, EmployeeCode: "EMP001"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		outbox.EventAttendanceSubmitted,
		outbox.EventAttendanceApproved,
		outbox.EventAttendanceClockedOut,
	}, d.events.eventTypes())

	last := d.events.events[2]
	assert.Equal(t, testTopic, last.Topic)
	assert.Equal(t, "req-123", last.RequestID)
	assert.Equal(t, outbox.AggregateAttendance, last.AggregateType)

	var payload outbox.AttendancePayload
	require.NoError(t, json.Unmarshal(last.Payload, &payload))
	assert.Equal(t, resp.ID, payload.AttendanceID)
	assert.Equal(t, "EMP001", payload.EmployeeCode)
	assert.Equal(t, string(attendance.StatusApproved), payload.Status)
}
