package models

const (
	ServiceHaircut       = "haircut"
	ServiceBeard         = "beard"
	ServiceCombo         = "combo"
	ServiceWomensHaircut = "womens-haircut"
	ServiceWomensStyling = "womens-styling"
	ServiceWomensColor   = "womens-color"
)

// Service is immutable reference data seeded by the admin.
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Type        string `gorm:"size:30;not null" json:"type"`
	Description string `gorm:"size:255" json:"description"`

	// Price in minor currency units (cents).
	Price int `gorm:"not null" json:"price"`

	// Duration in minutes.
	Duration int `gorm:"not null" json:"duration"`

	Image string `gorm:"size:255" json:"image"`
}
