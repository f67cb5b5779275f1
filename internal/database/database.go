// Package database opens the relational store and owns its schema.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/onewordstory/internal/config"
	"github.com/mcoot/onewordstory/internal/model"
)

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	maxOpen := cfg.MaxOpenConns

	switch cfg.Type {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.URL)

	case "mysql", "mariadb":
		dialector = mysql.Open(mysqlDSN(cfg.URL))

	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.URL))
		// SQLite has no row locks; one connection serializes every transaction instead
		maxOpen = 1

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(max(maxOpen/2, 1))

	log.Info("connected to database", "type", cfg.Type, "max_open_conns", maxOpen)

	return db, nil
}

// AutoMigrate creates or updates the tables for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Story{},
		&model.Participant{},
		&model.Word{},
		&model.Invitation{},
	)
}

// Ping checks that the database is reachable
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mysqlDSN makes sure timestamps scan into time.Time and that each statement
// sees rows committed before it, so reads taken after a row lock are current
func mysqlDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "parseTime=") {
		params = append(params, "parseTime=True", "loc=UTC")
	}
	if !strings.Contains(dsn, "transaction_isolation=") {
		params = append(params, "transaction_isolation=%27READ-COMMITTED%27")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// sqliteDSN adds a busy timeout so other processes sharing the file wait rather than fail
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "_pragma=busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}
