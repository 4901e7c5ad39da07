package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetwise/internal/interfaces/scheduler"
	"budgetwise/internal/shared/config"
	"budgetwise/internal/shared/logging"
	"budgetwise/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Telemetry shutdown error")
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Initialize scheduler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   scheduler.RecomputeJobProvider(deps.UserRepo, deps.BudgetService),
		}, logger)
		if err != nil {
			return err
		}
		sched.Start()
		logger.Infof("Scheduler started with times: %v", cfg.Scheduler.ScheduleTimes)
	} else {
		logger.Info("Scheduler is disabled")
	}

	handler := SetupRoutes(deps, cfg, logger)
	srv := StartServer(cfg.Server.Host+":"+cfg.Server.Port, handler, logger)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, sched, 30*time.Second, logger)
	return nil
}
