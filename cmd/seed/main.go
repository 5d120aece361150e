package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/stafftrack/stafftrack/internal/adapters/repository/postgres"
	"github.com/stafftrack/stafftrack/internal/core/employee"
	"github.com/stafftrack/stafftrack/internal/core/status"
	"github.com/stafftrack/stafftrack/internal/platform/config"
	pg "github.com/stafftrack/stafftrack/internal/platform/db/postgres"
)

type seedStatus struct {
	name             string
	color            string
	requiresDeadline bool
	displayOrder     int
}

var defaultStatuses = []seedStatus{
	{name: "Ready", color: "#22c55e", displayOrder: 1},
	{name: "Repair", color: "#3b82f6", requiresDeadline: true, displayOrder: 2},
	{name: "Vacation", color: "#f7b500", displayOrder: 3},
	{name: "Sick Leave", color: "#ef4444", displayOrder: 4},
	{name: "Business Trip", color: "#8b5cf6", requiresDeadline: true, displayOrder: 5},
	{name: "Rest", color: "#6b7280", displayOrder: 6},
}

var sampleEmployees = []string{
	"Alice Johnson",
	"Bob Smith",
	"Carol Williams",
}

func main() {
	withSamples := flag.Bool("with-samples", false, "also create sample employees")
	flag.Parse()

	ctx := context.Background()

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

	txManager := pg.NewTransactionManager(dbPool)
	statusSvc := status.NewService(postgres.NewStatusRepository(dbPool), nil, txManager)
	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(dbPool), nil, txManager)

	for _, s := range defaultStatuses {
		_, err := statusSvc.CreateStatus(ctx, status.CreateStatusInput{
			Name:             s.name,
			Color:            s.color,
			RequiresDeadline: s.requiresDeadline,
			DisplayOrder:     s.displayOrder,
		})
		switch {
		case errors.Is(err, status.ErrNameAlreadyExists):
			log.Printf("status %q already exists, skipping", s.name)
		case err != nil:
			log.Fatalf("failed to create status %q: %v", s.name, err)
		default:
			log.Printf("created status %q", s.name)
		}
	}

	if !*withSamples {
		return
	}

	for _, name := range sampleEmployees {
		created, err := employeeSvc.CreateEmployee(ctx, employee.CreateEmployeeInput{Name: name})
		if err != nil {
			log.Fatalf("failed to create employee %q: %v", name, err)
		}
		log.Printf("created employee %q (%s)", created.Name, created.ID)
	}
}
