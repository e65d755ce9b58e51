package models

import "time"

// DiscountCard represents one issued discount-membership card.
type DiscountCard struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CardID string `gorm:"type:text;not null;uniqueIndex"` // Opaque public card identifier.

	Active bool `gorm:"not null;default:false"` // Set once the holder completes activation.

	Name     *string `gorm:"type:text"` // Holder full name, absent until activation.
	Phone    *string `gorm:"type:text"` // Holder phone number, absent until activation.
	Resident *string `gorm:"type:text"` // Holder residence free text, absent until activation.

	ActivatedAt *time.Time // Activation time, if activated.
	ExpiresAt   *time.Time // Expiration time; nil means the card never expires.

	ProfilePictureURL *string `gorm:"type:text"` // Public URL of the stored profile picture.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName keeps the table name aligned with the public site's schema.
func (DiscountCard) TableName() string { return "discount_cards" }
