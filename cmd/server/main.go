package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/workload-ledger/internal/adapters/repository/postgres"
	"github.com/ogurasousui/workload-ledger/internal/core/workload"
	"github.com/ogurasousui/workload-ledger/internal/platform/config"
	pg "github.com/ogurasousui/workload-ledger/internal/platform/db/postgres"
	"github.com/ogurasousui/workload-ledger/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	tx := pg.NewTransactionManager(dbPool)
	ledgerSvc := workload.NewService(workload.Repositories{
		Employees:   postgres.NewEmployeeRepository(dbPool),
		Projects:    postgres.NewProjectRepository(dbPool),
		Assignments: postgres.NewAssignmentRepository(dbPool),
		Initiatives: postgres.NewInitiativeRepository(dbPool),
	}, nil, tx, cfg.Ledger.LockWait)

	grpcServer := server.New(cfg.Server.ListenAddr, ledgerSvc)

	log.Printf("gRPC server listening on %s", cfg.Server.ListenAddr)

	if err := grpcServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
