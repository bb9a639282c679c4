package apperror

const (
	// Client errors (4xx)
	CodeBadRequest              = "BAD_REQUEST"
	CodeValidation              = "VALIDATION_ERROR"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeDuplicateAttendance     = "DUPLICATE_ATTENDANCE"
	CodeAlreadyClockedOut       = "ALREADY_CLOCKED_OUT"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeFileTooLarge            = "FILE_TOO_LARGE"
	CodeUnsupportedFileType     = "UNSUPPORTED_FILE_TYPE"
	CodeRequestInProgress       = "REQUEST_IN_PROGRESS"
	CodeRateLimited             = "RATE_LIMITED"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_SERVER_ERROR"
)
