package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkflow-ai/mathnodes/internal/domain/models"
	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewGormDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dsn := cfg.DSN()

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info().Msg("Database connected successfully")

	return db, nil
}

// Ping checks the database connection; used by readiness probes.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")

	if err := db.AutoMigrate(&models.Formula{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// SeedFormulas inserts the default library entries that are missing.
func SeedFormulas(db *gorm.DB) error {
	for _, f := range models.DefaultFormulas() {
		if _, err := formula.Compile(f.Expression); err != nil {
			return fmt.Errorf("seed formula %s is invalid: %w", f.Name, err)
		}

		var existing models.Formula
		err := db.First(&existing, "name = ?", f.Name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up formula %s: %w", f.Name, err)
		}

		f := f
		if err := db.Create(&f).Error; err != nil {
			return fmt.Errorf("failed to seed formula %s: %w", f.Name, err)
		}
		log.Info().Str("formula", f.Name).Msg("Created formula")
	}

	return nil
}
