package schedule

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/models"
)

// ===============================
// Conflict rules
// ===============================

// SameMinute reports whether two instants coincide down to the minute.
func SameMinute(a, b time.Time) bool {
	a, b = a.Truncate(time.Minute), b.Truncate(time.Minute)
	return a.Equal(b)
}

// CanDeleteSlot guards the unblock action. Only manually blocked slots may be
// deleted, and only when no appointment for the same barber starts at the
// slot's exact minute. Range containment alone does not disqualify deletion.
func CanDeleteSlot(slot *models.TimeSlot, appointments []models.Appointment) error {
	if !slot.IsBooked {
		return httperr.ErrBusiness("slot_not_blocked", "This time slot is not blocked.")
	}

	for _, ap := range appointments {
		if ap.BarberID != slot.BarberID {
			continue
		}
		if SameMinute(ap.Date, slot.StartTime) {
			return httperr.ErrBusiness("slot_has_appointment", "Cannot delete a time slot that has an appointment.")
		}
	}

	return nil
}

// IsWithinBlockedRange reports whether t falls inside any manual block,
// using half-open [start, end) semantics: a candidate equal to a block's end
// is outside it.
func IsWithinBlockedRange(t time.Time, blocks []models.TimeSlot) bool {
	return BlockedSlotID(t, blocks) != nil
}

// BlockedSlotID returns the id of the manual block containing t, or nil.
func BlockedSlotID(t time.Time, blocks []models.TimeSlot) *uint {
	for i := range blocks {
		b := &blocks[i]
		if !b.IsBooked {
			continue
		}
		if !b.StartTime.After(t) && b.EndTime.After(t) {
			return &b.ID
		}
	}
	return nil
}

// ValidateBlockRange checks a prospective manual block: start must not be in
// the past, the span must be at least one step and a whole number of steps.
func ValidateBlockRange(start, end, now time.Time) error {
	if start.Before(now) {
		return httperr.ErrBusiness("block_in_past", "Cannot block time in the past.")
	}

	span := end.Sub(start)
	step := BlockStepMinutes * time.Minute
	if span < step {
		return httperr.ErrBusiness("block_too_short", "A block must span at least 30 minutes.")
	}
	if span%step != 0 {
		return httperr.ErrBusiness("block_not_aligned", "Block length must be a multiple of 30 minutes.")
	}

	return nil
}
