package database

import (
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fairway/backend/internal/models"
	"fairway/backend/pkg/logger"
)

// Connect opens the database and runs migrations. DSNs starting with "sqlite:" or "file:"
// use the embedded driver; anything else is handed to postgres.
func Connect(dsn string) (*gorm.DB, error) {
	customLogger := gormlogger.New(
		logger.Std(),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector(dsn), &gorm.Config{Logger: customLogger})
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database migrated successfully.")
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Follow{},
		&models.Course{},
		&models.Round{},
		&models.Reaction{},
		&models.Comment{},
		&models.AppSetting{},
	)
}
