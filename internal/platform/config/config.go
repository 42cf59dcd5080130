package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName         string
	HTTPPort            string
	LogLevel            string
	PostgresDSN         string
	PostgresAutoMigrate bool
	RedisAddr           string

	// SimulationMode only reaches the adapter factory.
	SimulationMode bool

	MetaGraphBaseURL string
	MetaAppID        string
	MetaAppSecret    string
	MetaRateLimit    float64
	MetaRateBurst    int
	MetaHTTPTimeout  time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	DriveEndpoint      string

	DailySyncHourUTC      int
	DailySyncPollInterval time.Duration
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	PlanLockTTL           time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "lumora-launch-engine"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := Config{
		ServiceName:         service,
		HTTPPort:            port,
		LogLevel:            envString("LOG_LEVEL", "info"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		PostgresAutoMigrate: envBool("POSTGRES_AUTO_MIGRATE", false),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),

		SimulationMode: envBool("SIMULATION_MODE", true),

		MetaGraphBaseURL: envString("META_GRAPH_BASE_URL", "https://graph.facebook.com/v19.0"),
		MetaAppID:        os.Getenv("META_APP_ID"),
		MetaAppSecret:    os.Getenv("META_APP_SECRET"),
		MetaRateLimit:    envFloat("META_RATE_LIMIT", 5),
		MetaRateBurst:    envInt("META_RATE_BURST", 10),
		MetaHTTPTimeout:  envDuration("META_HTTP_TIMEOUT", 30*time.Second),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		DriveEndpoint:      os.Getenv("GOOGLE_DRIVE_ENDPOINT"),

		DailySyncHourUTC:      envInt("DAILY_SYNC_HOUR_UTC", 6),
		DailySyncPollInterval: envDuration("DAILY_SYNC_POLL_INTERVAL", 5*time.Minute),
		OutboxPollInterval:    envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:       envInt("OUTBOX_BATCH_SIZE", 100),
		PlanLockTTL:           envDuration("PLAN_LOCK_TTL", 10*time.Minute),
	}

	if cfg.DailySyncHourUTC < 0 || cfg.DailySyncHourUTC > 23 {
		return Config{}, fmt.Errorf("DAILY_SYNC_HOUR_UTC must be between 0 and 23, got %d", cfg.DailySyncHourUTC)
	}
	if !cfg.SimulationMode && (cfg.MetaAppID == "" || cfg.MetaAppSecret == "") {
		return Config{}, fmt.Errorf("META_APP_ID and META_APP_SECRET are required when SIMULATION_MODE is off")
	}
	return cfg, nil
}

func envString(name string, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return raw
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
