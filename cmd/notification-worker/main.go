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
	"github.com/taskflow/eventcore/internal/dispatch"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/provider"
	"github.com/taskflow/eventcore/internal/reminder"
	"github.com/taskflow/eventcore/internal/secrets"
	"github.com/taskflow/eventcore/internal/statestore"
)

// cmd/notification-worker routes a reminder.due event to the email, push,
// or in-app channel and tracks delivery state for idempotency.
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

	state := statestore.NewPGStore(pool)
	secretStore := secrets.NewEnvStore(cfg.SecretPrefix)

	emailCred, _ := secretStore.Get(ctx, "EMAIL_PROVIDER_CREDENTIAL")
	pushCred, _ := secretStore.Get(ctx, "PUSH_PROVIDER_CREDENTIAL")

	channels := map[domain.NotificationType]dispatch.Channel{
		domain.NotificationEmail: dispatch.NewProviderChannel("email", provider.NewWebhookProvider(cfg.EmailProviderURL, emailCred, cfg.ProviderTimeout)),
		domain.NotificationPush:  dispatch.NewProviderChannel("push", provider.NewWebhookProvider(cfg.PushProviderURL, pushCred, cfg.ProviderTimeout)),
	}

	dispatcher := dispatch.NewDispatcher(channels, secretStore, state, logger)
	dispatcher.SetMetrics(m)

	srv := consumer.NewServer(logger, cfg.ConsumerConcurrency)
	srv.SetMetrics(m)
	srv.AddRoute(consumer.NewReminderRoute(cfg.PubsubComponentName, reminder.RemindersTopic, "/events/reminders", dispatcher, logger))
	srv.AddReadinessCheck(func(ctx context.Context) error { return pool.Ping(ctx) })

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("notification worker starting", zap.String("addr", httpSrv.Addr))
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

	logger.Info("notification worker stopped cleanly")
}
