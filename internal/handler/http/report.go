package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
)

type ReportHandler interface {
	// GET /reports/monthly-summary
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)

	// GET /reports/employee-stats
	GetEmployeeStats(w http.ResponseWriter, r *http.Request)

	// GET /reports/department-stats
	GetDepartmentStats(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlySummary implements ReportHandler.
func (h *reportHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	req := report.MonthlySummaryRequest{PeriodRequest: period}
	if code := r.URL.Query().Get("employeeCode"); code != "" {
		req.EmployeeCode = &code
	}

	result, err := h.reportService.MonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeStats implements ReportHandler.
func (h *reportHandlerImpl) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.reportService.EmployeeStats(r.Context(), report.EmployeeStatsRequest{
		PeriodRequest: period,
		EmployeeCode:  r.URL.Query().Get("employeeCode"),
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetDepartmentStats implements ReportHandler.
func (h *reportHandlerImpl) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.reportService.DepartmentStats(r.Context(), report.DepartmentStatsRequest{PeriodRequest: period})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// parsePeriod reads year and month. Absent values stay zero and are reported
// by the request's own validation.
func parsePeriod(r *http.Request) (report.PeriodRequest, error) {
	var (
		period report.PeriodRequest
		errs   validator.ValidationErrors
	)

	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
		}
		period.Year = year
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
		}
		period.Month = month
	}

	if len(errs) > 0 {
		return period, errs
	}
	return period, nil
}
