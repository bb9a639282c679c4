package report

import (
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

type PeriodRequest struct {
	Year  int `query:"year" validate:"required,min=2000,max=2100"`
	Month int `query:"month" validate:"required,min=1,max=12"`
}

type MonthlySummaryRequest struct {
	PeriodRequest
	EmployeeCode *string `query:"employeeCode"`
}

func (r *MonthlySummaryRequest) Validate() error {
	return validator.Struct(r)
}

type EmployeeStatsRequest struct {
	PeriodRequest
	EmployeeCode string `query:"employeeCode" validate:"required"`
}

func (r *EmployeeStatsRequest) Validate() error {
	return validator.Struct(r)
}

type DepartmentStatsRequest struct {
	PeriodRequest
}

func (r *DepartmentStatsRequest) Validate() error {
	return validator.Struct(r)
}

// ========================================
// RESPONSES
// ========================================

type Period struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`
}

type MonthlySummaryRow struct {
	EmployeeCode   string  `json:"employeeCode"`
	TotalRecords   int64   `json:"totalRecords"`
	PresentCount   int64   `json:"presentCount"`
	PendingCount   int64   `json:"pendingCount"`
	RejectedCount  int64   `json:"rejectedCount"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type MonthlySummaryResponse struct {
	Period      Period              `json:"period"`
	Summary     []MonthlySummaryRow `json:"summary"`
	GeneratedAt string              `json:"generatedAt"`
}

type EmployeeStats struct {
	TotalDays      int64   `json:"totalDays"`
	TotalRecords   int64   `json:"totalRecords"`
	ApprovedCount  int64   `json:"approvedCount"`
	SubmittedCount int64   `json:"submittedCount"`
	RejectedCount  int64   `json:"rejectedCount"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type EmployeeStatsResponse struct {
	Employee    employee.Identity `json:"employee"`
	Stats       EmployeeStats     `json:"stats"`
	Period      Period            `json:"period"`
	GeneratedAt string            `json:"generatedAt"`
}

type DepartmentStatsRow struct {
	Department     string  `json:"department"`
	TotalEmployees int64   `json:"totalEmployees"`
	TotalRecords   int64   `json:"totalRecords"`
	ApprovedCount  int64   `json:"approvedCount"`
	SubmittedCount int64   `json:"submittedCount"`
	RejectedCount  int64   `json:"rejectedCount"`
	ComplianceRate float64 `json:"complianceRate"`
}

type DepartmentStatsResponse struct {
	Departments []DepartmentStatsRow `json:"departments"`
	Period      Period               `json:"period"`
	GeneratedAt string               `json:"generatedAt"`
}
