package models

import "time"

// Barber is the bookable profile. UserID is a weak back-reference to the
// owning login; a barber row can exist without one (seeded staff).
type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint `gorm:"index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`

	Speciality string `gorm:"size:100" json:"speciality"`
	Bio        string `gorm:"size:500" json:"bio"`
	Image      string `gorm:"size:255" json:"image"`

	// Interval of the interactive schedule view, in minutes.
	SlotIntervalMin int `gorm:"default:30" json:"slot_interval_min"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
