package main

import (
	"os"

	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(os.Getenv("LOG_LEVEL")))
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentMigrate)

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting budget-migrate",
		log.FieldDBPath, cfg.DBPath,
		log.FieldVersion, storage.CurrentVersion)

	report, err := storage.RunMigrations(ctx, cfg.DBPath, logger)
	if err != nil {
		logger.Error("Migration failed", log.FieldError, err, log.FieldOperation, log.OpMigrate)
		os.Exit(1)
	}

	for _, f := range report.Failed {
		logger.Warn("Migration step skipped",
			log.FieldVersion, f.Version,
			log.FieldError, f.Err)
	}

	logger.Info("Schema up to date",
		"from", report.From,
		"to", report.To,
		"fresh", report.Fresh,
		log.FieldSuccess, report.OK())

	repo := cli.InitSQLite(ctx, logger, cfg.DBPath)
	defer repo.Close()
	if txs, err := repo.CountTransactions(ctx); err == nil {
		logger.Info("Store verified", log.FieldCount, txs)
	} else {
		logger.Warn("Store verification failed", log.FieldError, err)
	}

	if !report.OK() {
		repo.Close()
		// Non-zero so operators notice a partial upgrade.
		os.Exit(2)
	}
}
