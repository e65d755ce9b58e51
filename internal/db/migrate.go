package db

import (
	"fmt"

	"github.com/cardly-iq/cardly/internal/i18n"
	"github.com/cardly-iq/cardly/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all models, including one
// localized project table per supported language. Earlier deployments
// predate the profile columns on discount_cards, so those are backfilled
// explicitly for databases AutoMigrate has already seen.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errMigrate := conn.AutoMigrate(
		&models.DiscountCard{},
		&models.Staff{},
		&models.Setting{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}

	for _, lang := range i18n.Supported() {
		table := i18n.ProjectTable(lang)
		if errMigrate := conn.Table(table).AutoMigrate(&models.Project{}); errMigrate != nil {
			return fmt.Errorf("db: migrate %s: %w", table, errMigrate)
		}
	}

	return backfillCardProfileColumns(conn)
}

// backfillCardProfileColumns adds profile columns that predate AutoMigrate
// coverage on existing discount_cards tables.
func backfillCardProfileColumns(conn *gorm.DB) error {
	migrator := conn.Migrator()
	for _, column := range []string{"resident", "expires_at", "profile_picture_url"} {
		if migrator.HasColumn(&models.DiscountCard{}, column) {
			continue
		}
		if errAdd := migrator.AddColumn(&models.DiscountCard{}, column); errAdd != nil {
			return fmt.Errorf("db: add column %s: %w", column, errAdd)
		}
	}
	return nil
}
