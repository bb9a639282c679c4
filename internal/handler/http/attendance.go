package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is the room left for form boundaries and text fields on
// top of the photo itself.
const multipartOverhead = 1 << 20

type AttendanceHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	GetMyHistory(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	fileService       file.FileService
	maxUploadSize     int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, fileService file.FileService, maxUploadSize int64) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		fileService:       fileService,
		maxUploadSize:     maxUploadSize,
	}
}

// Submit implements AttendanceHandler.
func (h *attendanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.EmployeeCode == "" {
		response.HandleError(w, r, apperror.ErrForbidden)
		return
	}

	photoURL, err := h.storePhoto(w, r, true)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.attendanceService.Submit(r.Context(), attendance.SubmitRequest{
		EmployeeCode: principal.EmployeeCode,
		PhotoURL:     *photoURL,
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Created(w, result.Message, result)
}

// GetMyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.EmployeeCode == "" {
		response.HandleError(w, r, apperror.ErrForbidden)
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), principal.EmployeeCode, query)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// GetToday implements AttendanceHandler. Data is null when nothing was
// submitted today.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.EmployeeCode == "" {
		response.HandleError(w, r, apperror.ErrForbidden)
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), principal.EmployeeCode)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "No attendance submitted today", nil)
		return
	}
	response.Success(w, result)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.EmployeeCode == "" {
		response.HandleError(w, r, apperror.ErrForbidden)
		return
	}

	id, err := parseID(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	photoURL, err := h.storePhoto(w, r, false)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), attendance.ClockOutRequest{
		ID:               id,
		EmployeeCode:     principal.EmployeeCode,
		CheckOutPhotoURL: photoURL,
	})
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), query)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.Success(w, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	result, err := h.attendanceService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Reject implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	var req attendance.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(r.Context(), "Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.attendanceService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// storePhoto reads the multipart "photo" field and stores it. A nil URL means
// no photo was sent, which is an error only when required is set.
func (h *attendanceHandlerImpl) storePhoto(w http.ResponseWriter, r *http.Request, required bool) (*string, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if required {
			return nil, attendance.ErrPhotoRequired
		}
		return nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, file.ErrFileTooLarge
		}
		slog.WarnContext(r.Context(), "Failed to parse multipart form", "error", err)
		return nil, apperror.BadRequest(apperror.CodeBadRequest, "Failed to parse form data")
	}
	defer r.MultipartForm.RemoveAll()

	photo, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return nil, attendance.ErrPhotoRequired
			}
			return nil, nil
		}
		return nil, apperror.BadRequest(apperror.CodeBadRequest, "Invalid file upload")
	}
	defer photo.Close()

	if header.Size > h.maxUploadSize {
		return nil, file.ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(photo, h.maxUploadSize+1))
	if err != nil {
		return nil, apperror.BadRequest(apperror.CodeBadRequest, "Invalid file upload")
	}

	stored, err := h.fileService.StorePhoto(r.Context(), file.StorePhotoRequest{
		Content:      content,
		OriginalName: header.Filename,
	})
	if err != nil {
		return nil, err
	}
	return &stored.URL, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validator.ValidationErrors{{Field: "id", Message: "id must be a positive integer"}}
	}
	return id, nil
}

func parseListQuery(r *http.Request) (attendance.ListQuery, error) {
	q := r.URL.Query()
	query := attendance.ListQuery{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	var errs validator.ValidationErrors
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		}
		query.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a number"})
		}
		query.Limit = limit
	}
	if len(errs) > 0 {
		return query, errs
	}
	return query, nil
}
