package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

type Config struct {
	Type         string
	Path         string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and brings its schema up to date.
func Open(cfg Config) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", TypeSQLite:
		return OpenSQLite(cfg.Path)
	case TypePostgres, "postgresql":
		return OpenPostgres(cfg.DSN, cfg.MaxOpenConns)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func newGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
