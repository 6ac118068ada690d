package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nellaibill/teachersbank/config"
	"github.com/nellaibill/teachersbank/logger"
	"github.com/nellaibill/teachersbank/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey,
	// which the dispatch double-scan guard depends on.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.Teacher{},
		&models.Dispatch{},
		&models.Followup{},
		&models.User{},
	); err != nil {
		logger.Log.Fatalf("auto migrate failed: %v", err)
	}

	logger.Log.WithField("db", cfg.DBName).Info("database connected")
}
