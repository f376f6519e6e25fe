package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required. Each
// cmd/ binary loads the same Config and ignores the fields it does not need.
type Config struct {
	// Server / consumer runtime
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DrainTimeout    time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Dapr-shaped broker/state identity — carried even though delivery is
	// HTTP+Kafka rather than a Dapr sidecar, so the wire contract (GET
	// /dapr/subscribe, pubsubname field) stays addressable by the same
	// names operators already use.
	PubsubComponentName string
	StateStoreName      string
	DaprHTTPPort        string
	AppID               string

	// Kafka transport
	KafkaBrokers []string

	// Disables all task-event publishing, primarily for tests.
	EventPublishingEnabled bool
	PublishQueueHighCap    int
	PublishQueueNormalCap  int
	PublishWorkers         int

	// Background poll intervals. ReminderInterval drives the reminder sweep;
	// SchedulerInterval is loaded but no binary reads it.
	SchedulerInterval time.Duration
	ReminderInterval  time.Duration

	// Notification providers
	EmailProviderURL string
	PushProviderURL  string
	ProviderTimeout  time.Duration
	SecretPrefix     string

	// Rate limiting: requests per second, per scope (API path)
	RateLimit int

	// Consumer runtime per-route worker pool size
	ConsumerConcurrency int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		DrainTimeout:    getDuration("DRAIN_TIMEOUT", 15*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		PubsubComponentName: getEnv("PUBSUB_COMPONENT_NAME", "kafka-pubsub"),
		StateStoreName:      getEnv("STATE_STORE_NAME", "postgres-statestore"),
		DaprHTTPPort:        getEnv("DAPR_HTTP_PORT", "3500"),
		AppID:               getEnv("APP_ID", "eventcore"),

		KafkaBrokers: getStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),

		EventPublishingEnabled: getBool("EVENT_PUBLISHING_ENABLED", true),
		PublishQueueHighCap:    getInt("PUBLISH_QUEUE_HIGH_CAP", 1000),
		PublishQueueNormalCap:  getInt("PUBLISH_QUEUE_NORMAL_CAP", 5000),
		PublishWorkers:         getInt("PUBLISH_WORKERS", 4),

		SchedulerInterval: getDuration("SCHEDULER_INTERVAL", 60*time.Second),
		ReminderInterval:  getDuration("REMINDER_SWEEP_INTERVAL", 60*time.Second),

		EmailProviderURL: getEnv("EMAIL_PROVIDER_URL", "http://localhost:9100/send"),
		PushProviderURL:  getEnv("PUSH_PROVIDER_URL", "http://localhost:9100/send"),
		ProviderTimeout:  getDuration("PROVIDER_TIMEOUT", 5*time.Second),
		SecretPrefix:     getEnv("SECRET_PREFIX", ""),

		RateLimit: getInt("RATE_LIMIT_PER_SCOPE", 100),

		ConsumerConcurrency: getInt("CONSUMER_CONCURRENCY", 8),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getStringSlice(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
