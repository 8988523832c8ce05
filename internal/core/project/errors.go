package project

import "errors"

var (
	ErrInvalidID       = errors.New("project: invalid id")
	ErrInvalidStatus   = errors.New("project: invalid status")
	ErrInvalidPriority = errors.New("project: invalid priority")
	ErrProjectNotFound = errors.New("project: not found")
)
