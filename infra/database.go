// Package infra provides the postgres-backed implementation of the
// repository contracts, using gorm. The unit of work maps to a database
// transaction; account exclusivity maps to SELECT ... FOR UPDATE row locks.
package infra

import (
	"errors"
	"time"

	"github.com/corebank/corebank/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the database described by cfg. In development the
// gorm logger echoes statements; everywhere else it is silent.
func NewDBConnection(cfg config.DB, appEnv string) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}

// AutoMigrate creates or updates the engine's tables, including the unique
// indexes the idempotency and code-collision handling depend on.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Transaction{},
		&DailyUsage{},
		&AuditLog{},
	)
}
