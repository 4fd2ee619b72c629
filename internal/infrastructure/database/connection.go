package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/persistence"
	"github.com/andrescamacho/neutron-assistant-go/internal/infrastructure/config"
)

const memoryPath = ":memory:"

// sqliteFileOptions lets the CLI read state while the daemon writes it
const sqliteFileOptions = "?_journal_mode=WAL&_busy_timeout=5000"

// NewConnection opens the configured database. File-backed sqlite databases
// get their parent directory created on first use.
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.Type == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	} else {
		// each :memory: connection is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		if cfg.URL != "" {
			return postgres.Open(cfg.URL), nil
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)), nil

	case "sqlite":
		if cfg.Path == "" || cfg.Path == memoryPath {
			return sqlite.Open(memoryPath), nil
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return sqlite.Open(cfg.Path + sqliteFileOptions), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %q", cfg.Type)
	}
}

// NewTestConnection returns a migrated in-memory sqlite database
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: memoryPath})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the assistant tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(persistence.AllModels()...)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
