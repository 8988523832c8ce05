package project

import (
	"strings"
	"time"
)

// Status はプロジェクトの状態を表します。
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on-hold"
	StatusCancelled Status = "cancelled"
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
	case StatusOnHold:
		return StatusOnHold, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Priority はプロジェクトの優先度を表します。
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority は外部表現を正規化して Priority に変換します。
func ParsePriority(raw string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityCritical:
		return PriorityCritical, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Project はプロジェクトエンティティです。アサインとマイルストーンを所有します。
type Project struct {
	ID             string
	Name           string
	Status         Status
	Priority       Priority
	ManagerID      string
	EstimatedHours *int
	ActualHours    *int
	BudgetAmount   *int64
	BudgetCurrency *string
	Milestones     []Milestone
	Assignments    []Assignment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Milestone はプロジェクトの節目です。Position 順に並びます。
type Milestone struct {
	ID          string
	ProjectID   string
	Title       string
	DueDate     time.Time
	Completed   bool
	CompletedAt *time.Time
}

// Assignment はプロジェクトと社員を結ぶエッジです。(project, employee) の組で一意です。
type Assignment struct {
	ID                    string
	ProjectID             string
	EmployeeID            string
	Role                  string
	InvolvementPercentage int
	AssignedAt            time.Time
	UpdatedAt             time.Time
}

// AssignmentFor は指定した社員のアサインを返します。存在しなければ nil です。
func (p *Project) AssignmentFor(employeeID string) *Assignment {
	for i := range p.Assignments {
		if p.Assignments[i].EmployeeID == employeeID {
			return &p.Assignments[i]
		}
	}
	return nil
}

// TotalInvolvement はプロジェクトに紐づく関与率の合計を返します。100 を超えることがあります。
func (p *Project) TotalInvolvement() int {
	total := 0
	for _, a := range p.Assignments {
		total += a.InvolvementPercentage
	}
	return total
}
