package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/workload-ledger/internal/core/employee"
	pgdb "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
)

// EmployeeRepository は PostgreSQL を利用した社員読み取りの実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id,
               name,
               email,
               workload_cap,
               over_beyond_cap,
               manager_id,
               skills,
               created_at,
               updated_at
          FROM users
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanEmployee(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	var (
		emp       employee.Employee
		managerID sql.NullString
	)

	err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.WorkloadCap,
		&emp.OverBeyondCap,
		&managerID,
		&emp.Skills,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	if managerID.Valid {
		value := managerID.String
		emp.ManagerID = &value
	}

	return &emp, nil
}
