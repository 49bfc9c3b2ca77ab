package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	JWTSecret   string

	SweepInterval      time.Duration
	QuotaPruneInterval time.Duration
	QuotaRetentionDays int

	DefaultDurationDays  int
	ReapprovalWindowDays int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "bazar"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		SweepInterval:      envDuration("SWEEP_INTERVAL", 2*time.Minute),
		QuotaPruneInterval: envDuration("QUOTA_PRUNE_INTERVAL", 24*time.Hour),
		QuotaRetentionDays: envInt("QUOTA_RETENTION_DAYS", 30),

		DefaultDurationDays:  envInt("DEFAULT_DURATION_DAYS", 7),
		ReapprovalWindowDays: envInt("REAPPROVAL_WINDOW_DAYS", 7),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
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
