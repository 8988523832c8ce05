package workload

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyAssigned       = errors.New("workload: employee already assigned to project")
	ErrAssignmentNotFound    = errors.New("workload: assignment not found")
	ErrInitiativeNotAssigned = errors.New("workload: initiative not assigned to employee")
	ErrBusy                  = errors.New("workload: another mutation for this employee is in flight")
	ErrInvalidInvolvement    = errors.New("workload: involvement percentage must be between 1 and 100")
	ErrInvalidWorkloadShare  = errors.New("workload: workload percentage must be between 1 and 20")
	ErrInvalidRole           = errors.New("workload: invalid role")
	ErrNoFieldsToUpdate      = errors.New("workload: no fields to update")

	// ErrCapacityExceeded / ErrOverBeyondCapExceeded は errors.Is での判定用センチネルです。
	// 数値を伴う実体は CapacityExceededError / OverBeyondExceededError が担います。
	ErrCapacityExceeded      = errors.New("workload: capacity exceeded")
	ErrOverBeyondCapExceeded = errors.New("workload: over & beyond cap exceeded")
)

// CapacityExceededError は通常業務の上限超過を要求値・残量付きで表します。
type CapacityExceededError struct {
	Requested int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("workload: capacity exceeded: requested %d%%, available %d%%", e.Requested, e.Available)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// OverBeyondExceededError は Over & Beyond 上限超過を要求値・残量付きで表します。
type OverBeyondExceededError struct {
	Requested int
	Available int
}

func (e *OverBeyondExceededError) Error() string {
	return fmt.Sprintf("workload: over & beyond cap exceeded: requested %d%%, available %d%%", e.Requested, e.Available)
}

func (e *OverBeyondExceededError) Is(target error) bool {
	return target == ErrOverBeyondCapExceeded
}
