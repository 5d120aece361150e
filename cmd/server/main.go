package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/stafftrack/stafftrack/internal/adapters/http"
	"github.com/stafftrack/stafftrack/internal/adapters/repository/postgres"
	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/status"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
	"github.com/stafftrack/stafftrack/internal/platform/config"
	pg "github.com/stafftrack/stafftrack/internal/platform/db/postgres"
	"github.com/stafftrack/stafftrack/internal/platform/logger"
	"github.com/stafftrack/stafftrack/internal/platform/server"
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

	slogger := logger.New()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	statusRepo := postgres.NewStatusRepository(dbPool)
	logRepo := postgres.NewStatusLogRepository(dbPool)

	employeeSvc := employee.NewService(employeeRepo, nil, txManager)
	statusSvc := status.NewService(statusRepo, nil, txManager)
	logSvc := statuslog.NewService(logRepo, employeeRepo, statusRepo, nil, txManager)

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		Auth:      httpadapter.NewAuthHandler(cfg.Auth, nil, slogger),
		Employees: httpadapter.NewEmployeeHandler(employeeSvc, logSvc, nil, slogger),
		Statuses:  httpadapter.NewStatusHandler(statusSvc, slogger),
		Reports:   httpadapter.NewReportHandler(logSvc, nil, slogger),
		Logger:    slogger,
	})

	httpServer := server.New(cfg.Server.ListenAddr, router)

	slogger.Info("http server listening", "addr", cfg.Server.ListenAddr)

	if err := httpServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
