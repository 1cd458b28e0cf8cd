package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/finvue/expense-engine/internal/config"
	"github.com/finvue/expense-engine/internal/extraction"
	httpserver "github.com/finvue/expense-engine/internal/interfaces/http"
	"github.com/finvue/expense-engine/internal/ledger"
	"github.com/finvue/expense-engine/internal/narrative"
	"github.com/finvue/expense-engine/internal/policy"
	"github.com/finvue/expense-engine/internal/recon"
	"github.com/finvue/expense-engine/internal/repository"
	"github.com/finvue/expense-engine/internal/validator"
	"github.com/finvue/expense-engine/pkg/database"
	"github.com/finvue/expense-engine/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Local .env for credentials; absence is fine.
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting expense engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	receiptRepo := repository.NewReceiptRepository(db, logger)
	policyRepo := repository.NewPolicyRepository(db, logger)
	logRepo := repository.NewValidationLogRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)
	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	txnRepo := repository.NewTransactionRepository(db, logger)

	// Seed default policy rules on first run only.
	count, err := policyRepo.Count()
	if err != nil {
		logger.Fatal("Failed to count policies", zap.Error(err))
	}
	if count == 0 {
		if err := policyRepo.Seed(policy.Defaults()); err != nil {
			logger.Fatal("Failed to seed default policies", zap.Error(err))
		}
		logger.Info("Seeded default policy rules", zap.Int("count", len(policy.Defaults())))
	}

	services := httpserver.Services{
		Receipts:       receiptRepo,
		Policies:       policyRepo,
		ValidationLogs: logRepo,
		Customers:      customerRepo,
		Invoices:       invoiceRepo,
		Transactions:   txnRepo,
		Validator:      validator.New(policyRepo, logRepo, logger),
		Ledger:         ledger.New(db, invoiceRepo, txnRepo, logger),
		Analyzer:       recon.NewAnalyzer(txnRepo, logger),
	}

	// LLM adapters are optional. Without an API key the engine still
	// validates and reconciles; only upload extraction and narratives
	// are unavailable.
	if cfg.OpenAI.APIKey != "" {
		services.Extractor = extraction.NewExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
		services.Narrator = narrative.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, extraction and narrative endpoints disabled")
	}

	server := httpserver.NewServer(cfg.Server, cfg.Upload, services, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
