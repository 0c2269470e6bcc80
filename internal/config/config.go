package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App       AppConfig
	Ticket    TicketConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Catalog   CatalogConfig
	Keepalive KeepaliveConfig
}

// AppConfig controls the liveness HTTP server.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// CooldownBackend selects where cooldown windows are stored.
type CooldownBackend string

const (
	CooldownBackendMemory CooldownBackend = "memory"
	CooldownBackendRedis  CooldownBackend = "redis"
)

// TicketConfig holds the lifecycle timings and platform identifiers.
type TicketConfig struct {
	CooldownHours          int
	InactivitySeconds      int
	SweepMinutes           int
	FeedbackTimeoutSeconds int
	DeletionPauseSeconds   int
	TranscriptMaxChars     int
	LogChannelID           string
	AdminRoleID            string
	CooldownBackend        CooldownBackend
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// CatalogConfig locates the premium-app catalog file.
type CatalogConfig struct {
	Path string
}

// KeepaliveConfig drives the self-ping loop that keeps free-tier hosts from
// idling the process out.
type KeepaliveConfig struct {
	SelfPingURL   string
	PeriodMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := CooldownBackend(getEnv("COOLDOWN_BACKEND", string(CooldownBackendMemory)))
	if backend != CooldownBackendMemory && backend != CooldownBackendRedis {
		return nil, fmt.Errorf("invalid COOLDOWN_BACKEND: %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "support-ticket-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Ticket: TicketConfig{
			CooldownHours:          getEnvAsInt("TICKET_COOLDOWN_HOURS", 24),
			InactivitySeconds:      getEnvAsInt("TICKET_INACTIVITY_SECONDS", 7200),
			SweepMinutes:           getEnvAsInt("TICKET_SWEEP_MINUTES", 10),
			FeedbackTimeoutSeconds: getEnvAsInt("TICKET_FEEDBACK_TIMEOUT_SECONDS", 60),
			DeletionPauseSeconds:   getEnvAsInt("TICKET_DELETION_PAUSE_SECONDS", 5),
			TranscriptMaxChars:     getEnvAsInt("TICKET_TRANSCRIPT_MAX_CHARS", 1900),
			LogChannelID:           os.Getenv("TICKET_LOG_CHANNEL_ID"),
			AdminRoleID:            os.Getenv("TICKET_ADMIN_ROLE_ID"),
			CooldownBackend:        backend,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "catalog.yaml"),
		},
		Keepalive: KeepaliveConfig{
			SelfPingURL:   os.Getenv("SELF_PING_URL"),
			PeriodMinutes: getEnvAsInt("SELF_PING_MINUTES", 5),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// Cooldown returns the configured cooldown window.
func (t TicketConfig) Cooldown() time.Duration {
	return time.Duration(t.CooldownHours) * time.Hour
}

// InactivityThreshold returns the idle duration after which a ticket closes.
func (t TicketConfig) InactivityThreshold() time.Duration {
	return time.Duration(t.InactivitySeconds) * time.Second
}

// SweepPeriod returns the interval between auto-close sweeps.
func (t TicketConfig) SweepPeriod() time.Duration {
	return time.Duration(t.SweepMinutes) * time.Minute
}

// FeedbackTimeout returns the bounded wait for the rating prompt.
func (t TicketConfig) FeedbackTimeout() time.Duration {
	return time.Duration(t.FeedbackTimeoutSeconds) * time.Second
}

// DeletionPause returns the pause between deletions during a sweep.
func (t TicketConfig) DeletionPause() time.Duration {
	return time.Duration(t.DeletionPauseSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
