// Package config loads daybook settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/terraincognita07/daybook/internal/db"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port            string
	Database        db.Config
	SecretKey       string
	AccessTokenTTL  time.Duration
	Location        *time.Location
	LogLevel        slog.Level
	LogFormat       string
	PollPromptsFile string
	PollQueueSize   int
	PollWorkers     int
	MetricsEnabled  bool
}

// Load reads configuration. Values from envFile fill in variables that are
// not already set in the process environment; a missing file is ignored.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := newViper()

	port, err := resolvePort(v.GetString("PORT"))
	if err != nil {
		return nil, err
	}
	secretKey, err := resolveSecretKey(v.GetString("SECRET_KEY"))
	if err != nil {
		return nil, err
	}
	database, err := resolveDatabase(v)
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(strings.TrimSpace(v.GetString("TZ")))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", v.GetString("TZ"), err)
	}
	level, err := parseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	logFormat := strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT")))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", logFormat)
	}

	ttl := v.GetDuration("ACCESS_TOKEN_TTL")
	if ttl <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %q", v.GetString("ACCESS_TOKEN_TTL"))
	}

	queueSize := v.GetInt("POLL_QUEUE_SIZE")
	workers := v.GetInt("POLL_WORKERS")
	if queueSize <= 0 || workers <= 0 {
		return nil, fmt.Errorf("POLL_QUEUE_SIZE and POLL_WORKERS must be positive")
	}

	return &Config{
		Port:            port,
		Database:        database,
		SecretKey:       secretKey,
		AccessTokenTTL:  ttl,
		Location:        location,
		LogLevel:        level,
		LogFormat:       logFormat,
		PollPromptsFile: strings.TrimSpace(v.GetString("POLL_PROMPTS_FILE")),
		PollQueueSize:   queueSize,
		PollWorkers:     workers,
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
	}, nil
}

// LoadDatabase reads only the database settings. CLI maintenance commands use
// it so they do not require a signing key.
func LoadDatabase(envFile string) (db.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return db.Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return resolveDatabase(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_TYPE", db.TypeSQLite)
	v.SetDefault("DB_PATH", filepath.Join("data", "daybook.db"))
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("TZ", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("POLL_PROMPTS_FILE", "")
	v.SetDefault("POLL_QUEUE_SIZE", 256)
	v.SetDefault("POLL_WORKERS", 2)
	v.SetDefault("METRICS_ENABLED", true)
	v.AutomaticEnv()
	return v
}

func resolveDatabase(v *viper.Viper) (db.Config, error) {
	cfg := db.Config{
		Type:         strings.ToLower(strings.TrimSpace(v.GetString("DB_TYPE"))),
		Path:         strings.TrimSpace(v.GetString("DB_PATH")),
		DSN:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
	}

	switch cfg.Type {
	case db.TypeSQLite:
		if cfg.Path == "" {
			return db.Config{}, errors.New("DB_PATH is required for sqlite")
		}
	case db.TypePostgres:
		if cfg.DSN == "" {
			return db.Config{}, errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return db.Config{}, fmt.Errorf("unsupported DB_TYPE %q", cfg.Type)
	}
	return cfg, nil
}

func resolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return port, nil
}

func resolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", raw)
	}
	return level, nil
}
