package employee

import "github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/apperror"

var ErrEmployeeNotFound = apperror.NotFound("Employee not found")
