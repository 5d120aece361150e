package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stafftrack/stafftrack/internal/adapters/notify"
	"github.com/stafftrack/stafftrack/internal/adapters/repository/postgres"
	"github.com/stafftrack/stafftrack/internal/core/statuslog"
	"github.com/stafftrack/stafftrack/internal/platform/config"
	pg "github.com/stafftrack/stafftrack/internal/platform/db/postgres"
	"github.com/stafftrack/stafftrack/internal/platform/logger"
	"github.com/stafftrack/stafftrack/internal/worker"
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
	logSvc := statuslog.NewService(logRepo, employeeRepo, statusRepo, nil, txManager)

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = notify.NewLogMailer(slogger)
	}

	runner := worker.NewRunner(logSvc, mailer, cfg.Worker, nil, slogger)

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("worker stopped with error: %v", err)
	}
}
