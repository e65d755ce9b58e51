package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents a partner business entry in the public directory.
// Localized variants live in language-suffixed tables (projects_ar, projects_ku)
// with the same schema; the base table holds the English content.
type Project struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string  `gorm:"type:text;not null"` // Business display name.
	Place string  `gorm:"type:text;not null"` // Human-readable location text.
	City  *string `gorm:"type:text"`          // Dedicated city field, if set.

	GoogleMapLocation *string `gorm:"type:text"` // Map link, if any.
	PhoneNumber       *string `gorm:"type:text"` // Contact phone, if any.

	Category datatypes.JSONSlice[string] `gorm:"not null"` // Category tags.

	PriorityLevel int `gorm:"not null;default:3;index"` // Lower is more prominent; 1 marks featured.

	ImageURL       *string `gorm:"type:text"` // Cover image URL, if any.
	Description    *string `gorm:"type:text"` // Long description, if any.
	DiscountAmount *int    // Discount percentage in [0,100], if offered.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName returns the base (English) table name.
func (Project) TableName() string { return "projects" }

// FeaturedPriorityLevel marks projects pinned to the featured rail.
const FeaturedPriorityLevel = 1
