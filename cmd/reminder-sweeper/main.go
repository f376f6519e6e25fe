package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/config"
	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/db"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/pubsub"
	"github.com/taskflow/eventcore/internal/reminder"
	"github.com/taskflow/eventcore/internal/repository"
)

// cmd/reminder-sweeper runs a periodic loop: every REMINDER_SWEEP_INTERVAL
// it claims due reminders and publishes reminder.due for each one still
// backed by a live task. The ticker loop is the authoritative path; POST
// /api/jobs/reminder-sweep exposes the same Tick as an on-demand callback.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	reminderRepo := reminder.NewPGRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)

	kafkaPub := pubsub.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AppID, logger)
	defer kafkaPub.Close() //nolint:errcheck

	sweeper := reminder.NewSweeper(reminderRepo, taskRepo, kafkaPub, logger)
	sweeper.SetMetrics(m)

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go sweeper.Run(sweepCtx, cfg.ReminderInterval)

	srv := consumer.NewServer(logger, cfg.ConsumerConcurrency)
	srv.SetMetrics(m)
	srv.AddJob("reminder-sweep", sweeper.Tick)
	srv.AddReadinessCheck(func(ctx context.Context) error { return pool.Ping(ctx) })

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("reminder sweeper starting", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	cancelSweep()

	drainCtx, drainCancel := context.WithTimeout(ctx, cfg.DrainTimeout)
	defer drainCancel()
	srv.Drain(drainCtx)

	logger.Info("reminder sweeper stopped cleanly")
}
