// Command seed-policies replaces the policy rule set in a database with the
// built-in defaults. Useful for resetting a drifted environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/finvue/expense-engine/internal/policy"
	"github.com/finvue/expense-engine/internal/repository"
	"github.com/finvue/expense-engine/pkg/database"
	"github.com/finvue/expense-engine/pkg/utils"
)

func main() {
	dbPath := flag.String("db", "data/expense_engine.db", "path to the SQLite database")
	flag.Parse()

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      "info",
		OutputPath: "stdout",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:         *dbPath,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repo := repository.NewPolicyRepository(db, logger)
	if err := repo.Seed(policy.Defaults()); err != nil {
		logger.Fatal("Failed to seed default policies", zap.Error(err))
	}

	logger.Info("Default policy rules loaded",
		zap.String("db", *dbPath),
		zap.Int("count", len(policy.Defaults())))
}
