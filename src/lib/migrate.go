package lib

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/models"
)

// AutoMigrate runs all relational migrations.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.WithComponent("db").Info().Msg("Database migration completed")
	return nil
}
