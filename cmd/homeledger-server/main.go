// Package main provides the HTTP server for HomeLedger.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/homeledger/homeledger/internal/agent"
	"github.com/homeledger/homeledger/internal/config"
	"github.com/homeledger/homeledger/internal/db"
	"github.com/homeledger/homeledger/internal/llm"
	"github.com/homeledger/homeledger/internal/metrics"
	"github.com/homeledger/homeledger/internal/server"
	"github.com/homeledger/homeledger/internal/service"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	// Missing .env is fine; environment variables take over.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	slog.SetDefault(logger)
	defer func() {
		if err := closeLog(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()

	logger.Info("starting homeledger-server", "port", cfg.ServerPort, "llm_provider", cfg.LLMProvider)

	collector := metrics.NewCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger, collector)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("HOMELEDGER_WIPE_DB") == "true" {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			logger.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
		logger.Warn("database wiped")
	}

	model, err := llm.NewModel(ctx, cfg, collector)
	cancel()
	if err != nil {
		logger.Error("failed to initialize language model", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	expenses := service.NewExpenseService(dbClient)
	analytics := service.NewAnalyticsService(dbClient)
	gateway := service.NewAgentGateway(expenses, analytics)

	classifier := agent.NewClassifier(model, logger)
	engine := agent.NewEngine(classifier, agent.NewMemoryStore(), gateway, collector, logger)

	srv := server.New(":"+cfg.ServerPort, server.Deps{
		Engine:       engine,
		Bills:        expenses,
		Analytics:    analytics,
		Collector:    collector,
		Logger:       logger,
		UpcomingDays: cfg.UpcomingDays,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
