package database

import (
	"fmt"

	"github.com/bluelog/core/internal/config"
	"github.com/bluelog/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// Connect opens the configured database and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, log *zap.Logger, autoMigrate bool) (*gorm.DB, error) {
	db, err := openDB(cfg, log)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := CreateAll(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	DB = db
	return db, nil
}

// CreateAll creates every table that does not exist yet.
func CreateAll(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// DropAll drops every table, children first.
func DropAll(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops and recreates the schema.
func Reset(db *gorm.DB) error {
	if err := DropAll(db); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if err := CreateAll(db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("resolve sql db: %w", err)
	}
	return sqlDB.Close()
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	switch {
	case cfg.IsTesting():
		return logger.Silent
	case cfg.IsDev():
		return logger.Info
	default:
		return logger.Warn
	}
}

func dialector(cfg *config.AppConfig) (gorm.Dialector, error) {
	dsn, err := cfg.Database.DSNValue()
	if err != nil {
		return nil, err
	}
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return mysql.New(mysql.Config{
			DSN:               dsn,
			DefaultStringSize: 191,
		}), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openDB(cfg *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	var gormLogger logger.Interface = logger.Default.LogMode(resolveLogLevel(cfg))
	if log != nil {
		gormLogger = NewLogger(log, cfg.SlowQueryThreshold).LogMode(resolveLogLevel(cfg))
	}

	// Cascades are handled by the services so every driver behaves the same.
	db, err := gorm.Open(d, &gorm.Config{
		Logger:                                   gormLogger,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// In-memory databases vanish with their last connection.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return db, nil
}
