package config

import (
	"threatlens/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the shared connection pool and runs the schema migration.
func InitDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Services match on gorm.ErrDuplicatedKey to turn unique-constraint
		// violations into conflict responses.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Info("running database auto-migration")
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Article{},
		&models.Classification{},
		&models.Rating{},
		&models.Summary{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
