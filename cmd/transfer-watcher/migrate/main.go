package main

import (
	"context"
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/pkg/config"
	"github.com/chainsafe/near-eth-transfer/pkg/migrations/transferdb"
	"github.com/chainsafe/near-eth-transfer/pkg/pgutil"
	mghelper "github.com/chainsafe/near-eth-transfer/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	logger, err := config.NewLogger(cfg.Logging, "transfer-migrate")
	if err != nil {
		log.Fatalf("error creating logger: %s", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Connect to database
	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Running migrations for transfer database", zap.String("database", cfg.Database.Database))

	migrator := migrate.NewMigrator(db, transferdb.Migrations)
	if err := mghelper.RunMigrations(ctx, migrator, logger, flag.Args()...); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
}
