package cmd

import (
	"fmt"

	"lending-engine/core/config"
	"lending-engine/core/database"
	"lending-engine/core/logger"
	"lending-engine/feature/catalog"
	"lending-engine/feature/lending"
	"lending-engine/feature/membership"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// buildEngine loads configuration, initializes the logger, connects the
// database and wires the lending service. Every subcommand goes through
// here so they all behave identically.
func buildEngine() (*lending.Service, *gorm.DB, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := catalog.NewStore(db, log)
	members := membership.NewRegistry(db, log)
	ledger := lending.NewLedger(db, cfg.Lending, log)
	service := lending.NewService(db, store, members, ledger, cfg.Lending, log)

	return service, db, log, nil
}
