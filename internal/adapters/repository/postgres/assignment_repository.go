package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	pgdb "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// AssignmentRepository は PostgreSQL を利用したアサイン永続化の実装です。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create はアサインを新規作成します。ID はこの層で採番します。
func (r *AssignmentRepository) Create(ctx context.Context, a *project.Assignment) (*project.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO assignments (id, project_id, employee_id, role, involvement_percentage, assigned_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, project_id, employee_id, role, involvement_percentage, assigned_at, updated_at
    `,
		uuid.NewString(),
		a.ProjectID,
		a.EmployeeID,
		a.Role,
		a.InvolvementPercentage,
		a.AssignedAt,
		a.UpdatedAt,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return created, nil
}

// Update はアサインの関与率・ロールを更新します。
func (r *AssignmentRepository) Update(ctx context.Context, a *project.Assignment) (*project.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE assignments
           SET role = $1,
               involvement_percentage = $2,
               updated_at = $3
         WHERE project_id = $4
           AND employee_id = $5
        RETURNING id, project_id, employee_id, role, involvement_percentage, assigned_at, updated_at
    `,
		a.Role,
		a.InvolvementPercentage,
		a.UpdatedAt,
		a.ProjectID,
		a.EmployeeID,
	)

	updated, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return updated, nil
}

// Delete はアサインを削除します。
func (r *AssignmentRepository) Delete(ctx context.Context, projectID, employeeID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM assignments WHERE project_id = $1 AND employee_id = $2`, projectID, employeeID)
	if err != nil {
		return translateAssignmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return workload.ErrAssignmentNotFound
	}
	return nil
}

// FindByProjectAndEmployee は (project, employee) の組でアサインを取得します。
func (r *AssignmentRepository) FindByProjectAndEmployee(ctx context.Context, projectID, employeeID string) (*project.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, project_id, employee_id, role, involvement_percentage, assigned_at, updated_at
          FROM assignments
         WHERE project_id = $1
           AND employee_id = $2
         LIMIT 1
    `, projectID, employeeID)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// ListActiveByEmployee は active なプロジェクトに属するアサインのみを返します。
// 容量計算はここで絞られた行だけを合算します。
func (r *AssignmentRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]*project.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	return listAssignments(ctx, exec, `
        SELECT a.id, a.project_id, a.employee_id, a.role, a.involvement_percentage, a.assigned_at, a.updated_at
          FROM assignments a
          JOIN projects p ON p.id = a.project_id
         WHERE a.employee_id = $1
           AND p.status = 'active'
    `, employeeID)
}

func listAssignments(ctx context.Context, exec pgdb.Queryer, query string, args ...any) ([]*project.Assignment, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*project.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func scanAssignment(row rowScanner) (*project.Assignment, error) {
	var a project.Assignment
	err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.EmployeeID,
		&a.Role,
		&a.InvolvementPercentage,
		&a.AssignedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workload.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func translateAssignmentPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return workload.ErrAlreadyAssigned
	case foreignKeyViolationCode:
		if pgErr.ConstraintName == "assignments_employee_id_fkey" {
			return employee.ErrEmployeeNotFound
		}
		return project.ErrProjectNotFound
	case checkViolationCode:
		return workload.ErrInvalidInvolvement
	default:
		return err
	}
}
