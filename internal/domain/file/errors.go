package file

import (
	"errors"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"
)

var (
	ErrFileTooLarge        = apperror.BadRequest(apperror.CodeFileTooLarge, "File exceeds the maximum upload size")
	ErrUnsupportedFileType = apperror.BadRequest(apperror.CodeUnsupportedFileType, "Only JPEG and PNG images are allowed")
	ErrEmptyFile           = apperror.BadRequest(apperror.CodeValidation, "Photo is required")

	// ErrFileExists is returned by the repository when the content hash is already stored.
	ErrFileExists = errors.New("file with this content hash already exists")
)
