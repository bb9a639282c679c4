package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// CountByEmployee groups the month's records per employee
func (r *reportRepositoryImpl) CountByEmployee(ctx context.Context, from, to time.Time, employeeCode *string) ([]report.EmployeeCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			a.employee_code,
			COUNT(*) AS total_records,
			COUNT(CASE WHEN a.status = 'approved' THEN 1 END) AS approved_count,
			COUNT(CASE WHEN a.status = 'submitted' THEN 1 END) AS submitted_count,
			COUNT(CASE WHEN a.status = 'rejected' THEN 1 END) AS rejected_count
		FROM attendance_records a
		WHERE a.check_in_time BETWEEN $1 AND $2
		  AND ($3::text IS NULL OR a.employee_code = $3)
		GROUP BY a.employee_code
		ORDER BY a.employee_code ASC
	`

	rows, err := q.Query(ctx, query, from, to, employeeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer rows.Close()

	var result []report.EmployeeCounts
	for rows.Next() {
		var row report.EmployeeCounts
		if err := rows.Scan(
			&row.EmployeeCode,
			&row.Total,
			&row.Approved,
			&row.Submitted,
			&row.Rejected,
		); err != nil {
			return nil, fmt.Errorf("failed to scan monthly summary row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly summary: %w", err)
	}

	return result, nil
}

// CountForEmployee counts one employee's month, including distinct check-in days
func (r *reportRepositoryImpl) CountForEmployee(ctx context.Context, employeeCode string, from, to time.Time) (report.EmployeeDetailCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT a.check_in_date) AS total_days,
			COUNT(*) AS total_records,
			COUNT(CASE WHEN a.status = 'approved' THEN 1 END) AS approved_count,
			COUNT(CASE WHEN a.status = 'submitted' THEN 1 END) AS submitted_count,
			COUNT(CASE WHEN a.status = 'rejected' THEN 1 END) AS rejected_count
		FROM attendance_records a
		WHERE a.employee_code = $1
		  AND a.check_in_time BETWEEN $2 AND $3
	`

	var counts report.EmployeeDetailCounts
	err := q.QueryRow(ctx, query, employeeCode, from, to).Scan(
		&counts.DistinctDays,
		&counts.Total,
		&counts.Approved,
		&counts.Submitted,
		&counts.Rejected,
	)
	if err != nil {
		return report.EmployeeDetailCounts{}, fmt.Errorf("failed to query employee stats: %w", err)
	}

	return counts, nil
}

// CountByDepartment groups the month's records per department
func (r *reportRepositoryImpl) CountByDepartment(ctx context.Context, from, to time.Time) ([]report.DepartmentCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.department,
			COUNT(DISTINCT a.employee_code) AS total_employees,
			COUNT(*) AS total_records,
			COUNT(CASE WHEN a.status = 'approved' THEN 1 END) AS approved_count,
			COUNT(CASE WHEN a.status = 'submitted' THEN 1 END) AS submitted_count,
			COUNT(CASE WHEN a.status = 'rejected' THEN 1 END) AS rejected_count
		FROM attendance_records a
		JOIN employees e ON e.employee_code = a.employee_code
		WHERE a.check_in_time BETWEEN $1 AND $2
		  AND e.department IS NOT NULL
		GROUP BY e.department
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query department stats: %w", err)
	}
	defer rows.Close()

	var result []report.DepartmentCounts
	for rows.Next() {
		var row report.DepartmentCounts
		if err := rows.Scan(
			&row.Department,
			&row.TotalEmployees,
			&row.Total,
			&row.Approved,
			&row.Submitted,
			&row.Rejected,
		); err != nil {
			return nil, fmt.Errorf("failed to scan department stats row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department stats: %w", err)
	}

	return result, nil
}
