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
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/pubsub"
	"github.com/taskflow/eventcore/internal/recur"
	"github.com/taskflow/eventcore/internal/statestore"
)

// cmd/recurring-worker spawns the next occurrence of a recurring task on
// task.completed and publishes task.created for it.
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

	store := recur.NewPGStore(pool)
	state := statestore.NewPGStore(pool)

	kafkaPub := pubsub.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AppID, logger)
	defer kafkaPub.Close() //nolint:errcheck

	q := publisher.NewQueue(cfg.PublishQueueHighCap, cfg.PublishQueueNormalCap)
	taskPub := publisher.NewTaskPublisher(q, cfg.EventPublishingEnabled, logger)

	publishCtx, cancelPublish := context.WithCancel(ctx)
	defer cancelPublish()
	publishPool := publisher.NewPool(cfg.PublishWorkers, q, kafkaPub, m, logger)
	publishPool.Start(publishCtx)

	handler := recur.NewHandler(store, state, taskPub, logger)
	handler.SetMetrics(m)

	srv := consumer.NewServer(logger, cfg.ConsumerConcurrency)
	srv.SetMetrics(m)
	srv.AddRoute(consumer.NewTaskRoute(cfg.PubsubComponentName, publisher.TaskEventsTopic, "/events/task-events", handler, logger))
	srv.AddReadinessCheck(func(ctx context.Context) error { return pool.Ping(ctx) })

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("recurring-task worker starting", zap.String("addr", httpSrv.Addr))
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

	drainCtx, drainCancel := context.WithTimeout(ctx, cfg.DrainTimeout)
	defer drainCancel()
	srv.Drain(drainCtx)

	cancelPublish()
	publishPool.Wait()

	logger.Info("recurring-task worker stopped cleanly")
}
