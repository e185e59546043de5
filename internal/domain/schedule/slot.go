package schedule

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

// ===============================
// Slot classification
// ===============================

type StateKind string

const (
	StateAvailable StateKind = "available"
	StateBooked    StateKind = "booked"
	StateBlocked   StateKind = "blocked"
)

// SlotState is the display state of one candidate time unit. Booked entries
// carry the occupying appointment; Blocked entries carry the id of the manual
// block so the caller can offer an unblock action. Booked entries never carry
// a slot id: no row links an appointment to a TimeSlot.
type SlotState struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Kind StateKind `json:"kind"`

	Appointment *models.Appointment `json:"appointment,omitempty"`
	SlotID      *uint               `json:"slot_id,omitempty"`
}

type DayViewInput struct {
	BarberID uint
	Date     time.Time
	// Interval between candidate units, minutes.
	IntervalMin int
	Now         time.Time
}
