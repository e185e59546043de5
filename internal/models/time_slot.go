package models

import "time"

// TimeSlot is either a system-generated availability unit (IsBooked=false)
// or a manual block created by the barber (IsBooked=true). There is no
// foreign key to Appointment; the schedule package infers the association
// by comparing timestamps.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"index;not null" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	IsBooked bool `gorm:"default:false" json:"is_booked"`
}
