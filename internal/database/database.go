// Package database owns the process-wide GORM connection pool: it is opened
// once at startup, handed to the repositories, and closed at shutdown.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog/internal/config"
	"catalog/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector picks the GORM driver for a connection URI.
//
//	postgres://... or postgresql://...  -> PostgreSQL (pgx)
//	sqlite://PATH or file:...           -> SQLite
func Dialector(uri string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return postgres.Open(uri), nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite URI %q has no path", uri)
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(uri, "file:"):
		return sqlite.Open(uri), nil
	default:
		return nil, fmt.Errorf("unsupported database URI %q", redact(uri))
	}
}

// Open connects to the database described by cfg. SQL statements are logged
// through log at info level when cfg.Debug is set.
func Open(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.URI)
	if err != nil {
		return nil, err
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gormLogger := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	log.WithField("dialect", dialector.Name()).Info("connected to database")
	return db, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Init opens the database and migrates the schema. Call once at startup.
func Init(cfg config.DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	return db, nil
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return uri
}
