// Package db opens and migrates the permission database.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/dsn"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
	"github.com/tindevelopers/tinadmin-saas-base/internal/logger/adapter/gormlog"
)

// Open connects to the configured engine.
func Open(cfg config.DB) (*gorm.DB, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector

	switch cfg.Engine {
	case "mysql":
		dialector = mysql.Open(source)
	case "postgres":
		dialector = postgres.Open(source)
	default:
		dialector = sqlite.Open(source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlog.New(cfg.SlowQueryThreshold)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Tenant{},
		&models.Workspace{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
