package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/veyra-social/moderation-backend/internal/config"
	"github.com/veyra-social/moderation-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models plus the constraints GORM tags
// cannot express.
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB applies the schema to the given connection. Integration tests
// run it against their own database.
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Content{},
		&models.Report{},
		&models.AuditEntry{},
		&models.EnforcementTask{},
		&models.SystemLog{},
	); err != nil {
		return err
	}

	// One open report per (reporter, target). A partial unique index closes
	// the read-then-write race between concurrent submissions; terminal
	// reports fall outside the predicate so re-filing stays possible.
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_open_dedup
		ON reports (reporter_id, target_kind, target_id)
		WHERE status IN ('pending', 'under_review', 'escalated')
		AND deleted_at IS NULL
	`).Error
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
