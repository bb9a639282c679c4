package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Anything that is not a
// validation or application error is logged and reported as a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if appErr, ok := apperror.As(err); ok {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "request failed", "code", appErr.Code, "error", err)
		}
		Error(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return
	}

	slog.ErrorContext(r.Context(), "unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	InternalServerError(w, apperror.ErrInternal.Message)
}
