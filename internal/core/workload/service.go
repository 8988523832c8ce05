package workload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const defaultLockWait = 3 * time.Second

// Repositories は台帳が依存するエンティティストアの読み書き口をまとめます。
type Repositories struct {
	Employees   employee.Repository
	Projects    project.Repository
	Assignments project.AssignmentRepository
	Initiatives initiative.Repository
}

// Service は容量台帳のユースケースをまとめます。同一社員への変更は
// employeeLocker で直列化され、検証から書き込みまでを一つの論理単位として
// 実行します。
type Service struct {
	repos Repositories
	clock Clock
	tx    TransactionManager
	locks *employeeLocker
}

// UseCase は容量台帳の公開インターフェースです。
type UseCase interface {
	GetCapacity(ctx context.Context, in GetCapacityInput) (Snapshot, error)
	AssignToProject(ctx context.Context, in AssignToProjectInput) (*project.Assignment, error)
	UpdateAssignment(ctx context.Context, in UpdateAssignmentInput) (*project.Assignment, error)
	RemoveAssignment(ctx context.Context, in RemoveAssignmentInput) error
	AssignInitiative(ctx context.Context, in AssignInitiativeInput) (*initiative.Initiative, error)
	UnassignInitiative(ctx context.Context, in UnassignInitiativeInput) (*initiative.Initiative, error)
	EvaluateProject(ctx context.Context, in EvaluateProjectInput) (project.HealthReport, error)
}

// NewService は Service を生成します。lockWait が 0 以下の場合は既定値を使います。
func NewService(repos Repositories, clock Clock, tx TransactionManager, lockWait time.Duration) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Service{
		repos: repos,
		clock: clock,
		tx:    tx,
		locks: newEmployeeLocker(lockWait),
	}
}

// GetCapacityInput は容量照会の入力です。
type GetCapacityInput struct {
	EmployeeID string
}

// AssignToProjectInput はプロジェクトへのアサイン入力です。
type AssignToProjectInput struct {
	ProjectID             string
	EmployeeID            string
	InvolvementPercentage int
	Role                  string
}

// UpdateAssignmentInput はアサイン変更の入力です。nil のフィールドは変更しません。
type UpdateAssignmentInput struct {
	ProjectID             string
	EmployeeID            string
	InvolvementPercentage *int
	Role                  *string
}

// RemoveAssignmentInput はアサイン解除の入力です。
type RemoveAssignmentInput struct {
	ProjectID  string
	EmployeeID string
}

// AssignInitiativeInput は施策割り当ての入力です。
type AssignInitiativeInput struct {
	InitiativeID       string
	EmployeeID         string
	WorkloadPercentage int
}

// UnassignInitiativeInput は施策割り当て解除の入力です。
type UnassignInitiativeInput struct {
	InitiativeID string
	EmployeeID   string
}

// EvaluateProjectInput はプロジェクト健全性評価の入力です。
type EvaluateProjectInput struct {
	ProjectID string
}

// GetCapacity は社員の容量スナップショットを返します。読み取り専用で、ロックは
// 取得しません。
func (s *Service) GetCapacity(ctx context.Context, in GetCapacityInput) (Snapshot, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.repos.Employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		snap, err = s.loadSnapshot(txCtx, emp)
		return err
	}); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// AssignToProject は社員をプロジェクトへアサインします。容量超過・二重アサインは
// コミット前に拒否されます。
func (s *Service) AssignToProject(ctx context.Context, in AssignToProjectInput) (*project.Assignment, error) {
	projectID, err := normalizeProjectID(in.ProjectID)
	if err != nil {
		return nil, err
	}
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}
	if err := validateInvolvement(in.InvolvementPercentage); err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	var created *project.Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repos.Employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if _, err := s.repos.Projects.FindByID(txCtx, projectID); err != nil {
			return err
		}

		if err := s.ensureNotAssigned(txCtx, projectID, employeeID); err != nil {
			return err
		}

		snap, err := s.loadSnapshot(txCtx, emp)
		if err != nil {
			return err
		}
		if err := checkAssign(snap, in.InvolvementPercentage); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repos.Assignments.Create(txCtx, &project.Assignment{
			ProjectID:             projectID,
			EmployeeID:            employeeID,
			Role:                  role,
			InvolvementPercentage: in.InvolvementPercentage,
			AssignedAt:            now,
			UpdatedAt:             now,
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateAssignment はアサインの関与率・ロールを変更します。関与率の検証では
// 置き換え対象である現在値を残容量に加算して判定します。
func (s *Service) UpdateAssignment(ctx context.Context, in UpdateAssignmentInput) (*project.Assignment, error) {
	projectID, err := normalizeProjectID(in.ProjectID)
	if err != nil {
		return nil, err
	}
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if in.InvolvementPercentage == nil && in.Role == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if in.InvolvementPercentage != nil {
		if err := validateInvolvement(*in.InvolvementPercentage); err != nil {
			return nil, err
		}
	}

	var role string
	if in.Role != nil {
		role, err = normalizeRole(*in.Role)
		if err != nil {
			return nil, err
		}
	}

	release, err := s.locks.acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	var updated *project.Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repos.Assignments.FindByProjectAndEmployee(txCtx, projectID, employeeID)
		if err != nil {
			return err
		}

		if in.InvolvementPercentage != nil {
			emp, err := s.repos.Employees.FindByID(txCtx, employeeID)
			if err != nil {
				return err
			}
			snap, err := s.loadSnapshot(txCtx, emp)
			if err != nil {
				return err
			}
			if err := checkUpdate(snap, existing.InvolvementPercentage, *in.InvolvementPercentage); err != nil {
				return err
			}
			existing.InvolvementPercentage = *in.InvolvementPercentage
		}

		if in.Role != nil {
			existing.Role = role
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repos.Assignments.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// RemoveAssignment はアサインを解除します。解除は容量検証を伴いませんが、
// スナップショットの一貫性のため同一社員の他の変更とは直列化されます。
func (s *Service) RemoveAssignment(ctx context.Context, in RemoveAssignmentInput) error {
	projectID, err := normalizeProjectID(in.ProjectID)
	if err != nil {
		return err
	}
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return err
	}

	release, err := s.locks.acquire(ctx, employeeID)
	if err != nil {
		return err
	}
	defer release()

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repos.Assignments.Delete(txCtx, projectID, employeeID)
	})
}

// AssignInitiative は Over & Beyond 施策を社員へ割り当てます。
func (s *Service) AssignInitiative(ctx context.Context, in AssignInitiativeInput) (*initiative.Initiative, error) {
	initiativeID, err := normalizeInitiativeID(in.InitiativeID)
	if err != nil {
		return nil, err
	}
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := validateWorkloadShare(in.WorkloadPercentage); err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	var assigned *initiative.Initiative
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repos.Employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}

		init, err := s.repos.Initiatives.FindByID(txCtx, initiativeID)
		if err != nil {
			return err
		}
		if init.Status == initiative.StatusCompleted {
			return initiative.ErrInitiativeNotActive
		}
		if init.AssignedTo != nil {
			return initiative.ErrAlreadyAssigned
		}

		snap, err := s.loadSnapshot(txCtx, emp)
		if err != nil {
			return err
		}
		if err := checkInitiative(snap, in.WorkloadPercentage); err != nil {
			return err
		}

		result, err := s.repos.Initiatives.Assign(txCtx, initiativeID, employeeID, in.WorkloadPercentage)
		if err != nil {
			return err
		}

		assigned = result
		return nil
	}); err != nil {
		return nil, err
	}

	return assigned, nil
}

// UnassignInitiative は施策の割り当てを解除します。
func (s *Service) UnassignInitiative(ctx context.Context, in UnassignInitiativeInput) (*initiative.Initiative, error) {
	initiativeID, err := normalizeInitiativeID(in.InitiativeID)
	if err != nil {
		return nil, err
	}
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.acquire(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	defer release()

	var unassigned *initiative.Initiative
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		init, err := s.repos.Initiatives.FindByID(txCtx, initiativeID)
		if err != nil {
			return err
		}
		if !init.IsAssignedTo(employeeID) {
			return ErrInitiativeNotAssigned
		}

		result, err := s.repos.Initiatives.Unassign(txCtx, initiativeID)
		if err != nil {
			return err
		}

		unassigned = result
		return nil
	}); err != nil {
		return nil, err
	}

	return unassigned, nil
}

// EvaluateProject はプロジェクトの健全性を評価します。コミット済み状態に
// 対する読み取りのみで、状態は変更しません。
func (s *Service) EvaluateProject(ctx context.Context, in EvaluateProjectInput) (project.HealthReport, error) {
	projectID, err := normalizeProjectID(in.ProjectID)
	if err != nil {
		return project.HealthReport{}, err
	}

	var report project.HealthReport
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		proj, err := s.repos.Projects.FindByID(txCtx, projectID)
		if err != nil {
			return err
		}
		report = project.Evaluate(proj, s.clock.Now())
		return nil
	}); err != nil {
		return project.HealthReport{}, err
	}

	return report, nil
}

// loadSnapshot は単一トランザクション内の読み取りからスナップショットを組み立てます。
func (s *Service) loadSnapshot(ctx context.Context, emp *employee.Employee) (Snapshot, error) {
	assignments, err := s.repos.Assignments.ListActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return Snapshot{}, err
	}
	initiatives, err := s.repos.Initiatives.ListActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return ComputeSnapshot(emp, assignments, initiatives), nil
}

func (s *Service) ensureNotAssigned(ctx context.Context, projectID, employeeID string) error {
	existing, err := s.repos.Assignments.FindByProjectAndEmployee(ctx, projectID, employeeID)
	if err != nil && !errors.Is(err, ErrAssignmentNotFound) {
		return err
	}
	if existing != nil {
		return ErrAlreadyAssigned
	}
	return nil
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("employee_id: %w", employee.ErrInvalidID)
	}
	return trimmed, nil
}

func normalizeProjectID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("project_id: %w", project.ErrInvalidID)
	}
	return trimmed, nil
}

func normalizeInitiativeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("initiative_id: %w", initiative.ErrInvalidID)
	}
	return trimmed, nil
}

func normalizeRole(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidRole
	}
	return strings.ToLower(trimmed), nil
}

func validateInvolvement(pct int) error {
	if pct < 1 || pct > 100 {
		return ErrInvalidInvolvement
	}
	return nil
}

func validateWorkloadShare(pct int) error {
	if pct < 1 || pct > initiative.MaxWorkloadPercentage {
		return ErrInvalidWorkloadShare
	}
	return nil
}
