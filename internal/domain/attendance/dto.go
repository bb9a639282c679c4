package attendance

import (
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ========================================
// LIFECYCLE DTOs
// ========================================

type SubmitRequest struct {
	EmployeeCode string `json:"-"`
	PhotoURL     string `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeCode",
			Message: "employeeCode is required",
		})
	}

	if validator.IsEmpty(r.PhotoURL) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "photo is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SubmitResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type RejectRequest struct {
	ID     int64  `json:"-"`
	Reason string `json:"reason"`
}

type StatusResponse struct {
	ID              int64   `json:"id"`
	Status          Status  `json:"status"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	Message         string  `json:"message"`
}

type ClockOutRequest struct {
	ID               int64   `json:"-"`
	EmployeeCode     string  `json:"-"`
	CheckOutPhotoURL *string `json:"-"`
}

type ClockOutResponse struct {
	ID                int64  `json:"id"`
	CheckInTime       string `json:"checkInTime"`
	CheckOutTime      string `json:"checkOutTime"`
	TotalWorkingHours string `json:"totalWorkingHours"`
	Message           string `json:"message"`
}

// ========================================
// QUERY DTOs
// ========================================

// ListQuery is the raw list request. Zero values fall back to defaults.
type ListQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Filter applies pagination defaults and validates the date range. Dates are
// interpreted in loc.
func (q ListQuery) Filter(loc *time.Location) (ListFilter, error) {
	if err := validator.Struct(q); err != nil {
		return ListFilter{}, err
	}

	filter := ListFilter{Page: q.Page, Limit: q.Limit}
	if filter.Page < 1 {
		filter.Page = DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	if q.StartDate != "" {
		start, _ := time.ParseInLocation(validator.DateLayout, q.StartDate, loc)
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, _ := time.ParseInLocation(validator.DateLayout, q.EndDate, loc)
		filter.EndDate = &end
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return ListFilter{}, validator.ValidationErrors{{
			Field:   "startDate",
			Message: "startDate must not be after endDate",
		}}
	}

	return filter, nil
}

type AttendanceResponse struct {
	ID                int64   `json:"id"`
	EmployeeCode      string  `json:"employeeCode"`
	EmployeeName      *string `json:"employeeName"`
	Department        *string `json:"department"`
	CheckInTime       string  `json:"checkInTime"`
	CheckOutTime      *string `json:"checkOutTime"`
	PhotoURL          *string `json:"photoUrl"`
	CheckOutPhotoURL  *string `json:"checkOutPhotoUrl"`
	TotalWorkingHours *string `json:"totalWorkingHours"`
	Status            Status  `json:"status"`
	RejectionReason   *string `json:"rejectionReason"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

type PaginationMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPaginationMeta derives page count and neighbour flags from a total.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: int64(page)*int64(limit) < total,
		HasPrevPage: page > 1,
	}
}

type ListAttendanceResponse struct {
	Data       []AttendanceResponse `json:"data"`
	Pagination PaginationMeta       `json:"pagination"`
}
