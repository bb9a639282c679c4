package attendance

import (
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
)

// Attendance domain errors
var (
	// Lifecycle conflicts
	ErrDuplicateAttendance = apperror.Conflict(apperror.CodeDuplicateAttendance, "Attendance already submitted for today")
	ErrAlreadyClockedOut   = apperror.Conflict(apperror.CodeAlreadyClockedOut, "Already clocked out for this record")

	// Invalid transitions
	ErrCannotApprove = apperror.BadRequest(apperror.CodeInvalidStatusTransition, "Cannot approve attendance record")
	ErrCannotReject  = apperror.BadRequest(apperror.CodeInvalidStatusTransition, "Cannot reject attendance record")

	// Input
	ErrRejectionReasonRequired = apperror.BadRequest(apperror.CodeValidation, "Rejection reason is required")
	ErrPhotoRequired           = apperror.BadRequest(apperror.CodeValidation, "Photo is required")

	// General errors
	ErrAttendanceNotFound = apperror.NotFound("Attendance record not found")
)
