package schedule

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

// Business day bounds. The default grid is hourly; the interactive schedule
// view subdivides the same window at the barber's configured interval.
const (
	OpenHour  = 9
	CloseHour = 18

	DefaultGridMinutes = 60

	// Manual blocks: picker default span and adjustment step.
	DefaultBlockMinutes = 60
	BlockStepMinutes    = 30
)

// DefaultDaySlots produces the default availability grid for a barber on the
// given calendar date: one open slot per hour from 09:00 to 18:00, anchored
// to the date's location. Time-of-day on date is ignored.
func DefaultDaySlots(barberID uint, date time.Time) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, CloseHour-OpenHour)
	for hour := OpenHour; hour < CloseHour; hour++ {
		start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
		slots = append(slots, models.TimeSlot{
			BarberID:  barberID,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			IsBooked:  false,
		})
	}
	return slots
}

// DayBounds returns the [midnight, midnight+24h) window containing date.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}
