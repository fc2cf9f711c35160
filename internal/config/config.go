package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv        = "dev"
	defaultPort          = "8080"
	defaultDatabaseURL   = "hotel.db"
	defaultDBLogLevel    = "warn"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTAccessTTL  = "15m"
	defaultJWTRefreshTTL = "168h"
	defaultSweepEnabled  = "true"
	defaultSweepInterval = "1h"
	defaultMediaRoot     = "media"
	defaultMediaURL      = "/media"
	defaultAvatarMaxPx   = "400"
)

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	DBLogLevel    string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration
	SweepEnabled  bool
	SweepInterval time.Duration
	MediaRoot     string
	MediaURL      string
	AvatarMaxPx   int
	CORSOrigins   []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("level=info msg=\".env not loaded, using process environment\"")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.DBLogLevel = strings.ToLower(strings.TrimSpace(getEnv("DB_LOG_LEVEL", defaultDBLogLevel)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.MediaRoot = strings.TrimSpace(getEnv("MEDIA_ROOT", defaultMediaRoot))
	cfg.MediaURL = strings.TrimSpace(getEnv("MEDIA_URL", defaultMediaURL))
	cfg.SweepEnabled = parseBoolEnv("SWEEP_ENABLED", defaultSweepEnabled)
	cfg.CORSOrigins = parseListEnv("CORS_ORIGINS")

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.JWTRefreshTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultJWTRefreshTTL)
	if err != nil {
		return nil, err
	}

	cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}

	cfg.AvatarMaxPx, err = parseIntEnv("AVATAR_MAX_PX", defaultAvatarMaxPx)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.JWTRefreshTTL <= cfg.JWTAccessTTL {
		return fmt.Errorf("JWT_REFRESH_TTL must be longer than JWT_ACCESS_TTL")
	}
	if cfg.SweepEnabled && cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0 when SWEEP_ENABLED is on")
	}
	if cfg.AvatarMaxPx <= 0 {
		return fmt.Errorf("AVATAR_MAX_PX must be > 0")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("DB_LOG_LEVEL must be one of: silent, error, warn, info")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func parseListEnv(name string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
