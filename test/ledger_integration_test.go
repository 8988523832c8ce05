//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/ogurasousui/workload-ledger/internal/adapters/repository/postgres"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	"github.com/ogurasousui/workload-ledger/internal/platform/config"
	pg "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

func TestLedgerIntegration(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	seedLedger(t, ctx, pool)

	svc := workload.NewService(workload.Repositories{
		Employees:   repo.NewEmployeeRepository(pool),
		Projects:    repo.NewProjectRepository(pool),
		Assignments: repo.NewAssignmentRepository(pool),
		Initiatives: repo.NewInitiativeRepository(pool),
	}, nil, pg.NewTransactionManager(pool), cfg.Ledger.LockWait)

	if _, err := svc.AssignToProject(ctx, workload.AssignToProjectInput{
		ProjectID:             "00000000-0000-0000-0000-0000000000a1",
		EmployeeID:            "00000000-0000-0000-0000-000000000001",
		InvolvementPercentage: 80,
		Role:                  "Developer",
	}); err != nil {
		t.Fatalf("AssignToProject error: %v", err)
	}

	snap, err := svc.GetCapacity(ctx, workload.GetCapacityInput{EmployeeID: "00000000-0000-0000-0000-000000000001"})
	if err != nil {
		t.Fatalf("GetCapacity error: %v", err)
	}
	if snap.ProjectWorkload != 80 || snap.AvailableCapacity != 20 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	// 残り 20% を超える追加アサインは拒否されます。
	_, err = svc.AssignToProject(ctx, workload.AssignToProjectInput{
		ProjectID:             "00000000-0000-0000-0000-0000000000a2",
		EmployeeID:            "00000000-0000-0000-0000-000000000001",
		InvolvementPercentage: 25,
		Role:                  "Reviewer",
	})
	var capErr *workload.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Available != 20 {
		t.Fatalf("expected 20%% available, got %d", capErr.Available)
	}

	// 同じ組への再アサインは一意制約で弾かれます。
	if _, err := svc.AssignToProject(ctx, workload.AssignToProjectInput{
		ProjectID:             "00000000-0000-0000-0000-0000000000a1",
		EmployeeID:            "00000000-0000-0000-0000-000000000001",
		InvolvementPercentage: 10,
		Role:                  "Reviewer",
	}); !errors.Is(err, workload.ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	newInvolvement := 50
	if _, err := svc.UpdateAssignment(ctx, workload.UpdateAssignmentInput{
		ProjectID:             "00000000-0000-0000-0000-0000000000a1",
		EmployeeID:            "00000000-0000-0000-0000-000000000001",
		InvolvementPercentage: &newInvolvement,
	}); err != nil {
		t.Fatalf("UpdateAssignment error: %v", err)
	}

	ini, err := svc.AssignInitiative(ctx, workload.AssignInitiativeInput{
		InitiativeID:       "00000000-0000-0000-0000-0000000000b1",
		EmployeeID:         "00000000-0000-0000-0000-000000000001",
		WorkloadPercentage: 10,
	})
	if err != nil {
		t.Fatalf("AssignInitiative error: %v", err)
	}
	if !ini.IsAssignedTo("00000000-0000-0000-0000-000000000001") {
		t.Fatalf("initiative not assigned: %+v", ini)
	}

	snap, err = svc.GetCapacity(ctx, workload.GetCapacityInput{EmployeeID: "00000000-0000-0000-0000-000000000001"})
	if err != nil {
		t.Fatalf("GetCapacity error: %v", err)
	}
	if snap.TotalWorkload != 60 || snap.OverBeyondWorkload != 10 {
		t.Fatalf("unexpected snapshot after initiative %+v", snap)
	}

	report, err := svc.EvaluateProject(ctx, workload.EvaluateProjectInput{ProjectID: "00000000-0000-0000-0000-0000000000a1"})
	if err != nil {
		t.Fatalf("EvaluateProject error: %v", err)
	}
	if report.TotalInvolvement != 50 {
		t.Fatalf("unexpected total involvement %d", report.TotalInvolvement)
	}

	if _, err := svc.UnassignInitiative(ctx, workload.UnassignInitiativeInput{
		InitiativeID: "00000000-0000-0000-0000-0000000000b1",
		EmployeeID:   "00000000-0000-0000-0000-000000000001",
	}); err != nil {
		t.Fatalf("UnassignInitiative error: %v", err)
	}

	if err := svc.RemoveAssignment(ctx, workload.RemoveAssignmentInput{
		ProjectID:  "00000000-0000-0000-0000-0000000000a1",
		EmployeeID: "00000000-0000-0000-0000-000000000001",
	}); err != nil {
		t.Fatalf("RemoveAssignment error: %v", err)
	}

	snap, err = svc.GetCapacity(ctx, workload.GetCapacityInput{EmployeeID: "00000000-0000-0000-0000-000000000001"})
	if err != nil {
		t.Fatalf("GetCapacity error: %v", err)
	}
	if snap.TotalWorkload != 0 || snap.AvailableCapacity != 100 {
		t.Fatalf("expected empty ledger, got %+v", snap)
	}
}

func seedLedger(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	statements := []string{
		`INSERT INTO users (id, name, email, workload_cap, over_beyond_cap, skills)
         VALUES ('00000000-0000-0000-0000-000000000001', 'Integration', 'integration@example.com', 100, 20, '{}')`,
		`INSERT INTO projects (id, name, status, priority, manager_id)
         VALUES ('00000000-0000-0000-0000-0000000000a1', 'Migration', 'active', 'high', '00000000-0000-0000-0000-000000000001')`,
		`INSERT INTO projects (id, name, status, priority, manager_id)
         VALUES ('00000000-0000-0000-0000-0000000000a2', 'Redesign', 'active', 'medium', '00000000-0000-0000-0000-000000000001')`,
		`INSERT INTO initiatives (id, title, status, workload_percentage, created_by)
         VALUES ('00000000-0000-0000-0000-0000000000b1', 'Mentoring', 'active', 0, '00000000-0000-0000-0000-000000000001')`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
