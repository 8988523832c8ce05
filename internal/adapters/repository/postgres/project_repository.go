package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workload-ledger/internal/core/project"
	pgdb "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
)

// ProjectRepository は PostgreSQL を利用したプロジェクト読み取りの実装です。
// マイルストーンとアサインも併せて読み込みます。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	row := exec.QueryRow(ctx, `
        SELECT id,
               name,
               status,
               priority,
               manager_id,
               estimated_hours,
               actual_hours,
               budget_amount,
               budget_currency,
               created_at,
               updated_at
          FROM projects
         WHERE id = $1
         LIMIT 1
    `, id)

	proj, err := scanProject(row)
	if err != nil {
		return nil, err
	}

	milestones, err := r.listMilestones(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	proj.Milestones = milestones

	assignments, err := listAssignments(ctx, exec, `
        SELECT id, project_id, employee_id, role, involvement_percentage, assigned_at, updated_at
          FROM assignments
         WHERE project_id = $1
         ORDER BY assigned_at
    `, id)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		proj.Assignments = append(proj.Assignments, *a)
	}

	return proj, nil
}

func (r *ProjectRepository) listMilestones(ctx context.Context, exec pgdb.Queryer, projectID string) ([]project.Milestone, error) {
	rows, err := exec.Query(ctx, `
        SELECT id, project_id, title, due_date, completed, completed_at
          FROM milestones
         WHERE project_id = $1
         ORDER BY position
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []project.Milestone
	for rows.Next() {
		var (
			m           project.Milestone
			completedAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.DueDate, &m.Completed, &completedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			value := completedAt.Time
			m.CompletedAt = &value
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return milestones, nil
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		proj           project.Project
		rawStatus      string
		rawPriority    string
		estimatedHours sql.NullInt64
		actualHours    sql.NullInt64
		budgetAmount   sql.NullInt64
		budgetCurrency sql.NullString
	)

	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&rawStatus,
		&rawPriority,
		&proj.ManagerID,
		&estimatedHours,
		&actualHours,
		&budgetAmount,
		&budgetCurrency,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	// 取り込み時に一度だけ正規化します。
	status, err := project.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.ID, err)
	}
	proj.Status = status

	priority, err := project.ParsePriority(rawPriority)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", proj.ID, err)
	}
	proj.Priority = priority

	if estimatedHours.Valid {
		value := int(estimatedHours.Int64)
		proj.EstimatedHours = &value
	}
	if actualHours.Valid {
		value := int(actualHours.Int64)
		proj.ActualHours = &value
	}
	if budgetAmount.Valid {
		value := budgetAmount.Int64
		proj.BudgetAmount = &value
	}
	if budgetCurrency.Valid {
		value := budgetCurrency.String
		proj.BudgetCurrency = &value
	}

	return &proj, nil
}
