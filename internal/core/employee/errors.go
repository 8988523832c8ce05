package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrEmployeeNotFound = errors.New("employee: not found")
)
