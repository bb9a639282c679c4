package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceEmployeeDayKey = "attendance_records_employee_day_key"

const attendanceColumns = `
	a.id, a.employee_code, a.check_in_date, a.check_in_time, a.check_out_time,
	a.photo_url, a.check_out_photo_url, a.total_working_hours,
	a.status, a.rejection_reason, a.created_at, a.updated_at,
	e.full_name, e.department`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeCode, &att.CheckInDate, &att.CheckInTime, &att.CheckOutTime,
		&att.PhotoURL, &att.CheckOutPhotoURL, &att.TotalWorkingHours,
		&att.Status, &att.RejectionReason, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.Department,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_code, check_in_date, check_in_time, photo_url, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $6
		) RETURNING id, created_at, updated_at
	`

	checkInDate := dateOnly(newAttendance.CheckInTime)

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeCode,
		checkInDate,
		newAttendance.CheckInTime,
		newAttendance.PhotoURL,
		newAttendance.Status,
		newAttendance.CheckInTime,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, attendanceEmployeeDayKey) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance.WithCause(err)
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	newAttendance.CheckInDate = checkInDate
	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		LEFT JOIN employees e ON e.employee_code = a.employee_code
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// FindByEmployeeBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByEmployeeBetween(ctx context.Context, employeeCode string, from, to time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		LEFT JOIN employees e ON e.employee_code = a.employee_code
		WHERE a.employee_code = $1
		  AND a.check_in_time BETWEEN $2 AND $3
		ORDER BY a.check_in_time DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeCode, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance in window: %w", err)
	}

	return &att, nil
}

// TransitionStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) TransitionStatus(ctx context.Context, id int64, from, to attendance.Status, reason *string, updatedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $3,
			rejection_reason = $4,
			updated_at = $5
		WHERE id = $1
		  AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, from, to, reason, updatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to update attendance status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) ClockOut(ctx context.Context, params attendance.ClockOutParams) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $3,
			check_out_photo_url = $4,
			total_working_hours = $5,
			updated_at = $3
		WHERE id = $1
		  AND employee_code = $2
		  AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query,
		params.ID,
		params.EmployeeCode,
		params.CheckOutTime,
		params.CheckOutPhotoURL,
		params.TotalWorkingHours,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clock out attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeCode != nil {
		baseWhere += fmt.Sprintf(" AND a.employee_code = $%d", argIdx)
		args = append(args, *filter.EmployeeCode)
		argIdx++
	}

	// Date range filters, both bounds inclusive
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.check_in_date >= $%d", argIdx)
		args = append(args, dateOnly(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.check_in_date <= $%d", argIdx)
		args = append(args, dateOnly(*filter.EndDate))
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_records a
		LEFT JOIN employees e ON e.employee_code = a.employee_code
		WHERE %s
		ORDER BY a.check_in_time DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)

	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0, filter.Limit)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// dateOnly keeps t's calendar date in its own location and drops the clock
// part, which is how DATE columns are bound.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
