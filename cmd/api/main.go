package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bob-rietveld/unheard-v3/internal/agent"
	"github.com/bob-rietveld/unheard-v3/internal/crm"
	"github.com/bob-rietveld/unheard-v3/internal/enrichment"
	"github.com/bob-rietveld/unheard-v3/internal/integration"
	"github.com/bob-rietveld/unheard-v3/internal/models"
	"github.com/bob-rietveld/unheard-v3/internal/observability"
	"github.com/bob-rietveld/unheard-v3/internal/pool"
	"github.com/bob-rietveld/unheard-v3/internal/record"
	"github.com/bob-rietveld/unheard-v3/internal/schedule"
	"github.com/bob-rietveld/unheard-v3/internal/segment"
	"github.com/bob-rietveld/unheard-v3/internal/storage/postgres"
	"github.com/bob-rietveld/unheard-v3/internal/sync"
	"github.com/bob-rietveld/unheard-v3/internal/user"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	logger := observability.NewLogger()
	ctx := context.Background()

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Error("load database config", "error", err)
		os.Exit(1)
	}
	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	if err := postgres.MigrateModels(db,
		&models.User{},
		&models.Integration{},
		&models.CrmRecord{},
		&models.Segment{},
		&models.SegmentMember{},
		&models.EnrichmentJob{},
	); err != nil {
		logger.Error("migrate models", "error", err)
		os.Exit(1)
	}

	agentCfg, err := agent.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Error("load agent config", "error", err)
		os.Exit(1)
	}
	agentClient := agent.NewClient(*agentCfg)
	if !agentClient.Enabled() {
		logger.Warn("research agent API key not set, enrichment requests will be rejected")
	}

	var poolCfg pool.Config
	if err := envconfig.Process(ctx, &poolCfg); err != nil {
		logger.Error("load pool config", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	segmentRepo := postgres.NewSegmentRepository(db)
	jobRepo := postgres.NewJobRepository(db)

	dispatchPool := pool.New(poolCfg, logger)
	scheduler := schedule.New()

	orchestrator := enrichment.NewOrchestrator(
		jobRepo, recordRepo, agentClient, scheduler, logger, enrichment.Options{})
	enrichmentSvc := enrichment.NewService(
		jobRepo, recordRepo, segmentRepo, dispatchPool, orchestrator, agentClient)

	h := handlers{
		users:        user.NewHandler(user.NewService(userRepo)),
		integrations: integration.NewHandler(integration.NewService(integrationRepo, crm.ForName)),
		sync:         sync.NewHandler(sync.NewService(integrationRepo, recordRepo, crm.ForName)),
		records:      record.NewHandler(record.NewService(recordRepo)),
		segments:     segment.NewHandler(segment.NewService(segmentRepo, recordRepo)),
		enrichment:   enrichment.NewHandler(enrichmentSvc),
	}

	// Poll chains are persisted as running jobs; re-arm them so a restart
	// does not strand in-flight enrichment.
	if err := orchestrator.Resume(ctx); err != nil {
		logger.Error("resume enrichment jobs", "error", err)
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: newRouter(h, userRepo),
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	scheduler.Stop()
	dispatchPool.Stop()
	logger.Info("stopped")
}
