package initiative

import (
	"strings"
	"time"
)

// Status は Over & Beyond 施策の状態を表します。
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus は外部表現を正規化して Status に変換します。
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

// MaxWorkloadPercentage は施策一件が要求できる負荷率の方針上限です。
const MaxWorkloadPercentage = 20

// Initiative は Over & Beyond 施策エンティティです。
type Initiative struct {
	ID                 string
	Title              string
	Status             Status
	AssignedTo         *string
	WorkloadPercentage int
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAssignedTo は施策が指定した社員に割り当てられているかを返します。
func (i *Initiative) IsAssignedTo(employeeID string) bool {
	return i.AssignedTo != nil && *i.AssignedTo == employeeID
}
