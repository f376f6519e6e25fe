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

	"github.com/taskflow/eventcore/internal/api"
	"github.com/taskflow/eventcore/internal/config"
	"github.com/taskflow/eventcore/internal/db"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/pubsub"
	"github.com/taskflow/eventcore/internal/reminder"
	"github.com/taskflow/eventcore/internal/repository"
	"github.com/taskflow/eventcore/internal/service"
)

// cmd/api is the task-ownership HTTP API: task, category, recurrence, and
// reminder CRUD. It owns the Postgres pool and enqueues a task-events
// publish after every mutation; the publish workers drain that queue
// against Kafka in the background.
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

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	taskRepo := repository.NewPgTaskRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	recurrenceRepo := repository.NewPgRecurrenceRepository(pool)
	reminderRepo := reminder.NewPGRepository(pool)

	kafkaPub := pubsub.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AppID, logger)
	defer kafkaPub.Close() //nolint:errcheck

	q := publisher.NewQueue(cfg.PublishQueueHighCap, cfg.PublishQueueNormalCap)
	taskPub := publisher.NewTaskPublisher(q, cfg.EventPublishingEnabled, logger)

	publishCtx, cancelPublish := context.WithCancel(ctx)
	defer cancelPublish()
	publishPool := publisher.NewPool(cfg.PublishWorkers, q, kafkaPub, m, logger)
	publishPool.Start(publishCtx)

	taskSvc := service.NewTaskService(taskRepo, taskPub, logger)
	categorySvc := service.NewCategoryService(categoryRepo)
	recurrenceSvc := service.NewRecurrenceService(recurrenceRepo, taskRepo)
	reminderSvc := reminder.NewService(reminderRepo, taskRepo)

	router := api.NewRouter(taskSvc, categorySvc, recurrenceSvc, reminderSvc, q, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("api server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	cancelPublish()
	publishPool.Wait()

	logger.Info("api server stopped cleanly")
}
