package initiative

import "errors"

var (
	ErrInvalidID           = errors.New("initiative: invalid id")
	ErrInvalidStatus       = errors.New("initiative: invalid status")
	ErrInitiativeNotFound  = errors.New("initiative: not found")
	ErrInitiativeNotActive = errors.New("initiative: not active")
	ErrAlreadyAssigned     = errors.New("initiative: already assigned")
)
