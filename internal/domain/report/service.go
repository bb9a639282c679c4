package report

import "context"

// ReportService defines the interface for attendance compliance reports
type ReportService interface {
	MonthlySummary(ctx context.Context, req MonthlySummaryRequest) (MonthlySummaryResponse, error)
	EmployeeStats(ctx context.Context, req EmployeeStatsRequest) (EmployeeStatsResponse, error)
	DepartmentStats(ctx context.Context, req DepartmentStatsRequest) (DepartmentStatsResponse, error)
}
