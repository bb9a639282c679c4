package employee

import "context"

// EmployeeRepository is the employee directory lookup. Implementations return
// ErrEmployeeNotFound for unknown codes.
type EmployeeRepository interface {
	GetByCode(ctx context.Context, code string) (Employee, error)
}
