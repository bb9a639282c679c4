package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
)

type ReportServiceImpl struct {
	report.ReportRepository
	employee.EmployeeRepository
	clock clock.Clock
}

func NewReportService(reportRepository report.ReportRepository, employeeRepository employee.EmployeeRepository, clk clock.Clock) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:   reportRepository,
		EmployeeRepository: employeeRepository,
		clock:              clk,
	}
}

// window returns the inclusive month window in the server's time zone and
// the generation instant.
func (s *ReportServiceImpl) window(p report.PeriodRequest) (from, to, now time.Time) {
	now = clock.Now(s.clock)
	from, to = clock.MonthBounds(p.Year, time.Month(p.Month), now.Location())
	return from, to, now
}

func period(p report.PeriodRequest) report.Period {
	return report.Period{
		Year:      p.Year,
		Month:     p.Month,
		MonthName: clock.MonthName(p.Month),
	}
}

// MonthlySummary implements report.ReportService.
func (s *ReportServiceImpl) MonthlySummary(ctx context.Context, req report.MonthlySummaryRequest) (report.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlySummaryResponse{}, err
	}

	from, to, now := s.window(req.PeriodRequest)

	counts, err := s.ReportRepository.CountByEmployee(ctx, from, to, req.EmployeeCode)
	if err != nil {
		return report.MonthlySummaryResponse{}, fmt.Errorf("failed to build monthly summary: %w", err)
	}

	rows := make([]report.MonthlySummaryRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, report.MonthlySummaryRow{
			EmployeeCode:   c.EmployeeCode,
			TotalRecords:   c.Total,
			PresentCount:   c.Approved,
			PendingCount:   c.Submitted,
			RejectedCount:  c.Rejected,
			AttendanceRate: c.AttendanceRate(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EmployeeCode < rows[j].EmployeeCode
	})

	return report.MonthlySummaryResponse{
		Period:      period(req.PeriodRequest),
		Summary:     rows,
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

// EmployeeStats implements report.ReportService.
func (s *ReportServiceImpl) EmployeeStats(ctx context.Context, req report.EmployeeStatsRequest) (report.EmployeeStatsResponse, error) {
	if err := req.Validate(); err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	from, to, now := s.window(req.PeriodRequest)

	counts, err := s.ReportRepository.CountForEmployee(ctx, req.EmployeeCode, from, to)
	if err != nil {
		return report.EmployeeStatsResponse{}, fmt.Errorf("failed to build employee stats: %w", err)
	}

	return report.EmployeeStatsResponse{
		Employee: emp.Identity(),
		Stats: report.EmployeeStats{
			TotalDays:      counts.DistinctDays,
			TotalRecords:   counts.Total,
			ApprovedCount:  counts.Approved,
			SubmittedCount: counts.Submitted,
			RejectedCount:  counts.Rejected,
			AttendanceRate: counts.AttendanceRate(),
		},
		Period:      period(req.PeriodRequest),
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

// DepartmentStats implements report.ReportService.
func (s *ReportServiceImpl) DepartmentStats(ctx context.Context, req report.DepartmentStatsRequest) (report.DepartmentStatsResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DepartmentStatsResponse{}, err
	}

	from, to, now := s.window(req.PeriodRequest)

	counts, err := s.ReportRepository.CountByDepartment(ctx, from, to)
	if err != nil {
		return report.DepartmentStatsResponse{}, fmt.Errorf("failed to build department stats: %w", err)
	}

	rows := make([]report.DepartmentStatsRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, report.DepartmentStatsRow{
			Department:     c.Department,
			TotalEmployees: c.TotalEmployees,
			TotalRecords:   c.Total,
			ApprovedCount:  c.Approved,
			SubmittedCount: c.Submitted,
			RejectedCount:  c.Rejected,
			ComplianceRate: c.ComplianceRate(),
		})
	}

	// Highest compliance first, ties by name
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ComplianceRate != rows[j].ComplianceRate {
			return rows[i].ComplianceRate > rows[j].ComplianceRate
		}
		return rows[i].Department < rows[j].Department
	})

	return report.DepartmentStatsResponse{
		Departments: rows,
		Period:      period(req.PeriodRequest),
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}
