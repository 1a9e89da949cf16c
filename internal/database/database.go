package database

import (
	"strings"

	"github.com/arnold/habitus-api/internal/config"
	"github.com/arnold/habitus-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.IsProduction() && cfg.LogLevel == "debug" {
		level = logger.Info
	}

	return Open(cfg.DatabaseURL, level)
}

// Open picks PostgreSQL for postgres URLs and SQLite for anything else.
func Open(url string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Activity{},
	)
}
