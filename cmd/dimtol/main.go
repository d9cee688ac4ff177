package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/verimetric/dimtol/internal/config"
	dbRedis "github.com/verimetric/dimtol/internal/db/redis"
	logpkg "github.com/verimetric/dimtol/internal/logger"
	"github.com/verimetric/dimtol/internal/metrics"
	recordrepo "github.com/verimetric/dimtol/internal/repository/record"
	snapshotrepo "github.com/verimetric/dimtol/internal/repository/snapshot"
	chiTransport "github.com/verimetric/dimtol/internal/transport/chi"
	autosaveuc "github.com/verimetric/dimtol/internal/usecase/autosave"
	healthuc "github.com/verimetric/dimtol/internal/usecase/health"
	ingestuc "github.com/verimetric/dimtol/internal/usecase/ingest"
	inspectionuc "github.com/verimetric/dimtol/internal/usecase/inspection"
	projectuc "github.com/verimetric/dimtol/internal/usecase/project"
	"github.com/verimetric/dimtol/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dimtol API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register core metrics explicitly (no init())
	metrics.RegisterCoreMetrics()

	// Create repositories
	recRepo := recordrepo.New(store, cfg.Storage.KeyPrefix)
	snapStore := snapshotrepo.New(store, cfg.Storage.KeyPrefix,
		time.Duration(cfg.Autosave.RetentionHrs)*time.Hour)

	// Create use case services
	ingestSvc := ingestuc.New(recRepo, logger)
	inspectionSvc := inspectionuc.New(recRepo, logger)
	autosaveSvc := autosaveuc.New(recRepo, snapStore,
		time.Duration(cfg.Autosave.IntervalSec)*time.Second, logger)
	projectSvc := projectuc.New(cfg.Project.RootDir, logger)
	healthSvc := healthuc.New(store)

	autosaveSvc.Start(ctx)

	// Create chi server
	server := chiTransport.NewServer(ingestSvc, inspectionSvc, autosaveSvc, projectSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	// Final snapshot so a killed session can be recovered
	autosaveSvc.Stop(shutdownCtx)

	logger.Info("Server stopped gracefully")
}
