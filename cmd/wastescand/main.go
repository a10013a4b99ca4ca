package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/common"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/engine"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/export"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/server"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	// Logger
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	engineCfg, err := engineDefaults(cfg.Engine)
	if err != nil {
		log.Fatalf("invalid engine defaults: %v", err)
	}
	// Fail on bad tunables now, not on the first request.
	if _, err := engine.New(engineCfg, logger); err != nil {
		log.Fatalf("invalid engine defaults: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := export.NewService(logger)
	svc := server.NewAnalysisService(engineCfg, exporter, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.NewRouter(svc, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("http serving on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
}

func engineDefaults(env common.EngineConfig) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	cfg.ProbableDuplicateWindowDays = env.ProbableDuplicateWindowDays
	threshold, err := decimal.NewFromString(env.PriceIncreaseThreshold)
	if err != nil {
		return engine.Config{}, err
	}
	cfg.PriceIncreaseThreshold = threshold
	return cfg, nil
}
