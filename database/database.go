package database

import (
	"fmt"

	"github.com/mstolarczyk/Goshawk/config"
	"github.com/mstolarczyk/Goshawk/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Database connected")
	return db, nil
}

// AutoMigrate keeps the schema in sync with the model set. Ordering matters:
// parents before children so foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.QuestionBank{},
		&model.LicenseCategory{},
		&model.Question{},
		&model.QuestionTranslation{},
		&model.QuestionOption{},
		&model.QuestionOptionTranslation{},
		&model.QuestionCategory{},
		&model.MediaAsset{},
		&model.QuestionMediaLink{},
		&model.ExamAttempt{},
		&model.ImportRun{},
		&model.ImportIssue{},
	)
}
