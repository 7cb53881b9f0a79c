package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/config"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/logger"

	"go.uber.org/zap"
)

// reconcile recomputes customer receivables and supplier payables of a tenant
// and prints every account whose stored aggregates drifted. Exit code 2 on drift.
func main() {
	tenant := flag.String("tenant", "", "tenant id (required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log := logger.Init(cfg)
	defer log.Sync()

	if *tenant == "" {
		log.Fatal("-tenant is required")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	reconciler := service.NewReconcileService(service.Deps{DB: db, Log: log, Config: cfg.Ledger})
	ctx := context.Background()

	customers, err := reconciler.ReconcileCustomers(ctx, *tenant)
	if err != nil {
		log.Fatal("Customer reconciliation failed", zap.Error(err))
	}
	suppliers, err := reconciler.ReconcileSuppliers(ctx, *tenant)
	if err != nil {
		log.Fatal("Supplier reconciliation failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]interface{}{
		"tenant_id": *tenant,
		"customers": customers,
		"suppliers": suppliers,
	}); err != nil {
		log.Fatal("Failed to write report", zap.Error(err))
	}

	if len(customers) > 0 || len(suppliers) > 0 {
		log.Sync()
		os.Exit(2)
	}
}
