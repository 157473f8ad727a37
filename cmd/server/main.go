package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"EventReach/internal/api"
	"EventReach/internal/campaign"
	"EventReach/internal/config"
	"EventReach/internal/db"
	"EventReach/internal/email"
	"EventReach/internal/metrics"
	"EventReach/internal/models"
	"EventReach/internal/scheduler"
	"EventReach/internal/worker"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Database
	// ------------------------------------------------
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer store.Close()

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Mail Sender + Rate Limiter
	// ------------------------------------------------
	sender := &email.Sender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)

	// ------------------------------------------------
	// Welcome Email Worker Pool
	// ------------------------------------------------
	jobs := make(chan models.WelcomeEmailJob, 100)

	var wg sync.WaitGroup

	worker.StartPool(
		ctx,
		&wg,
		cfg.WorkerCount,
		jobs,
		sender,
		limiter,
		store,
		logger,
	)

	// ------------------------------------------------
	// Campaign Executor + Delayed-Job Trigger
	// ------------------------------------------------
	executor := campaign.NewExecutor(store, sender, limiter, logger)

	trigger := scheduler.NewTrigger(func(taskID string) {
		executor.Execute(ctx, taskID)
	}, logger)

	sched := scheduler.NewService(store, trigger, logger)

	if err := sched.Restore(ctx); err != nil {
		logger.Fatal("failed to restore pending email tasks", zap.Error(err))
	}

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	handler := api.NewHandler(store, sched, jobs, cfg.EventName, logger)

	apiServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("api server started",
			zap.String("port", cfg.APIPort),
			zap.String("event", cfg.EventName),
		)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	// Stop accepting new jobs, wait for the pool to drain
	close(jobs)
	wg.Wait()

	// Disarm pending triggers; tasks stay pending and are restored next start
	trigger.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
