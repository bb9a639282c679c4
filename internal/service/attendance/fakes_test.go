package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/outbox"
)

// fakeAttendanceRepository mimics the postgres store: a unique
// (employee_code, check_in_date) key and conditional updates.
type fakeAttendanceRepository struct {
	mu      sync.Mutex
	records map[int64]attendance.Attendance
	nextID  int64
	calls   int
}

func newFakeAttendanceRepository() *fakeAttendanceRepository {
	return &fakeAttendanceRepository{records: make(map[int64]attendance.Attendance)}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (f *fakeAttendanceRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	for _, existing := range f.records {
		if existing.EmployeeCode == att.EmployeeCode && sameDay(existing.CheckInTime, att.CheckInTime) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
	}

	f.nextID++
	att.ID = f.nextID
	att.CreatedAt = att.CheckInTime
	att.UpdatedAt = att.CheckInTime
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepository) GetByID(_ context.Context, id int64) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepository) FindByEmployeeBetween(_ context.Context, employeeCode string, from, to time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	for _, att := range f.records {
		if att.EmployeeCode == employeeCode && !att.CheckInTime.Before(from) && !att.CheckInTime.After(to) {
			found := att
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) TransitionStatus(_ context.Context, id int64, from, to attendance.Status, reason *string, updatedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	att, ok := f.records[id]
	if !ok || att.Status != from {
		return false, nil
	}
	att.Status = to
	att.RejectionReason = reason
	att.UpdatedAt = updatedAt
	f.records[id] = att
	return true, nil
}

func (f *fakeAttendanceRepository) ClockOut(_ context.Context, params attendance.ClockOutParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	att, ok := f.records[params.ID]
	if !ok || att.EmployeeCode != params.EmployeeCode || att.CheckOutTime != nil {
		return false, nil
	}
	checkOut := params.CheckOutTime
	hours := params.TotalWorkingHours
	att.CheckOutTime = &checkOut
	att.CheckOutPhotoURL = params.CheckOutPhotoURL
	att.TotalWorkingHours = &hours
	att.UpdatedAt = checkOut
	f.records[params.ID] = att
	return true, nil
}

func (f *fakeAttendanceRepository) List(_ context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	var matched []attendance.Attendance
	for _, att := range f.records {
		if filter.EmployeeCode != nil && att.EmployeeCode != *filter.EmployeeCode {
			continue
		}
		if filter.StartDate != nil && att.CheckInTime.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && att.CheckInTime.After(filter.EndDate.Add(24*time.Hour-time.Second)) {
			continue
		}
		matched = append(matched, att)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CheckInTime.After(matched[j].CheckInTime)
	})

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeAttendanceRepository) get(id int64) attendance.Attendance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[id]
}

type fakeOutboxRepository struct {
	mu     sync.Mutex
	events []outbox.Event
}

func (f *fakeOutboxRepository) Create(_ context.Context, event outbox.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(context.Context, time.Time, int) ([]outbox.Event, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(context.Context, string, time.Time) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(context.Context, string, string, time.Time) error {
	return nil
}

func (f *fakeOutboxRepository) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.EventType)
	}
	return types
}

// inlineTransactor runs fn directly on the caller's context.
type inlineTransactor struct{}

func (inlineTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
