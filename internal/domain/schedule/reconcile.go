package schedule

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

// ===============================
// Appointment / slot reconciliation
// ===============================

// Classify decides the display state of one candidate unit [start, end).
// Precedence: an appointment starting inside the unit wins, then a manual
// block containing the unit start, then available.
func Classify(
	start time.Time,
	end time.Time,
	appointments []models.Appointment,
	blocks []models.TimeSlot,
) SlotState {

	state := SlotState{Start: start, End: end, Kind: StateAvailable}

	for i := range appointments {
		ap := &appointments[i]
		if ap.Status == string(StatusCancelled) {
			continue
		}
		if !ap.Date.Before(start) && ap.Date.Before(end) {
			state.Kind = StateBooked
			state.Appointment = ap
			return state
		}
	}

	if id := BlockedSlotID(start, blocks); id != nil {
		state.Kind = StateBlocked
		state.SlotID = id
	}

	return state
}

// BuildDayView walks the business day at the requested interval and
// classifies every unit. Units starting before in.Now are omitted entirely.
func BuildDayView(
	in DayViewInput,
	appointments []models.Appointment,
	blocks []models.TimeSlot,
) []SlotState {

	interval := in.IntervalMin
	if interval <= 0 {
		interval = BlockStepMinutes
	}
	step := time.Duration(interval) * time.Minute

	dayStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), OpenHour, 0, 0, 0, in.Date.Location())
	dayEnd := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), CloseHour, 0, 0, 0, in.Date.Location())

	var view []SlotState
	for cur := dayStart; cur.Before(dayEnd); cur = cur.Add(step) {
		if cur.Before(in.Now) {
			continue
		}
		view = append(view, Classify(cur, cur.Add(step), appointments, blocks))
	}

	return view
}
