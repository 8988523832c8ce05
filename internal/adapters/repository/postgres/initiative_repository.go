package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workload-ledger/internal/core/initiative"
	pgdb "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
)

// InitiativeRepository は PostgreSQL を利用した施策永続化の実装です。
type InitiativeRepository struct {
	pool pgdb.Queryer
}

// NewInitiativeRepository は InitiativeRepository を生成します。
func NewInitiativeRepository(pool pgdb.Queryer) *InitiativeRepository {
	return &InitiativeRepository{pool: pool}
}

const initiativeColumns = `id, title, status, assigned_to, workload_percentage, created_by, created_at, updated_at`

// FindByID は ID で施策を取得します。
func (r *InitiativeRepository) FindByID(ctx context.Context, id string) (*initiative.Initiative, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+initiativeColumns+`
          FROM initiatives
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanInitiative(row)
}

// ListActiveByEmployee は指定社員に割り当て済みで active な施策を返します。
func (r *InitiativeRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]*initiative.Initiative, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+initiativeColumns+`
          FROM initiatives
         WHERE assigned_to = $1
           AND status = 'active'
    `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var initiatives []*initiative.Initiative
	for rows.Next() {
		ini, err := scanInitiative(rows)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, ini)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return initiatives, nil
}

// Assign は施策を社員へ割り当て、負荷率を記録します。
func (r *InitiativeRepository) Assign(ctx context.Context, id, employeeID string, workloadPercentage int) (*initiative.Initiative, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE initiatives
           SET assigned_to = $2,
               workload_percentage = $3,
               updated_at = now()
         WHERE id = $1
        RETURNING `+initiativeColumns+`
    `, id, employeeID, workloadPercentage)

	return scanInitiative(row)
}

// Unassign は施策の割り当てを解除し、負荷率をゼロへ戻します。
func (r *InitiativeRepository) Unassign(ctx context.Context, id string) (*initiative.Initiative, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE initiatives
           SET assigned_to = NULL,
               workload_percentage = 0,
               updated_at = now()
         WHERE id = $1
        RETURNING `+initiativeColumns+`
    `, id)

	return scanInitiative(row)
}

func scanInitiative(row rowScanner) (*initiative.Initiative, error) {
	var (
		ini        initiative.Initiative
		rawStatus  string
		assignedTo sql.NullString
	)

	err := row.Scan(
		&ini.ID,
		&ini.Title,
		&rawStatus,
		&assignedTo,
		&ini.WorkloadPercentage,
		&ini.CreatedBy,
		&ini.CreatedAt,
		&ini.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, initiative.ErrInitiativeNotFound
		}
		return nil, err
	}

	status, err := initiative.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("initiative %s: %w", ini.ID, err)
	}
	ini.Status = status

	if assignedTo.Valid {
		value := assignedTo.String
		ini.AssignedTo = &value
	}

	return &ini, nil
}
