package schedule

import (
	"testing"
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

func TestClassifyPrecedence(t *testing.T) {
	appts := []models.Appointment{
		{BarberID: 5, Date: at(14, 0), Status: string(StatusPending)},
	}
	appts[0].ID = 11
	blocks := []models.TimeSlot{
		{BarberID: 5, StartTime: at(14, 0), EndTime: at(16, 0), IsBooked: true},
	}
	blocks[0].ID = 3

	// Appointment and block cover the same unit: the appointment wins.
	got := Classify(at(14, 0), at(14, 30), appts, blocks)
	if got.Kind != StateBooked {
		t.Fatalf("kind = %v, want booked", got.Kind)
	}
	if got.Appointment == nil || got.Appointment.ID != 11 {
		t.Fatal("booked state does not carry the appointment")
	}

	// Block only.
	got = Classify(at(15, 0), at(15, 30), appts, blocks)
	if got.Kind != StateBlocked {
		t.Fatalf("kind = %v, want blocked", got.Kind)
	}
	if got.SlotID == nil || *got.SlotID != 3 {
		t.Fatal("blocked state does not carry the slot id")
	}

	// Nothing covers it.
	got = Classify(at(16, 0), at(16, 30), appts, blocks)
	if got.Kind != StateAvailable {
		t.Fatalf("kind = %v, want available", got.Kind)
	}
}

func TestClassifySkipsCancelledAppointments(t *testing.T) {
	appts := []models.Appointment{
		{BarberID: 5, Date: at(14, 0), Status: string(StatusCancelled)},
	}
	got := Classify(at(14, 0), at(14, 30), appts, nil)
	if got.Kind != StateAvailable {
		t.Fatalf("cancelled appointment still occupies the unit: %v", got.Kind)
	}
}

func TestBuildDayViewGrid(t *testing.T) {
	in := DayViewInput{
		BarberID:    5,
		Date:        at(0, 0),
		IntervalMin: 30,
		Now:         at(0, 0), // whole day in the future
	}

	view := BuildDayView(in, nil, nil)

	if len(view) != 18 {
		t.Fatalf("expected 18 half-hour units between 09:00 and 18:00, got %d", len(view))
	}
	if !view[0].Start.Equal(at(9, 0)) {
		t.Errorf("first unit at %v, want 09:00", view[0].Start)
	}
	if !view[len(view)-1].Start.Equal(at(17, 30)) {
		t.Errorf("last unit at %v, want 17:30", view[len(view)-1].Start)
	}
	for _, u := range view {
		if u.Kind != StateAvailable {
			t.Errorf("empty day has unit %v in state %v", u.Start, u.Kind)
		}
	}
}

func TestBuildDayViewOmitsPastUnits(t *testing.T) {
	in := DayViewInput{
		BarberID:    5,
		Date:        at(0, 0),
		IntervalMin: 30,
		Now:         at(12, 15),
	}

	view := BuildDayView(in, nil, nil)

	if len(view) == 0 {
		t.Fatal("no units returned")
	}
	if !view[0].Start.Equal(at(12, 30)) {
		t.Fatalf("first unit at %v, want 12:30 (first start not before now)", view[0].Start)
	}
	for _, u := range view {
		if u.Start.Before(in.Now) {
			t.Errorf("unit %v starts before now", u.Start)
		}
	}
}

func TestBuildDayViewDefaultInterval(t *testing.T) {
	in := DayViewInput{BarberID: 5, Date: at(0, 0), Now: at(0, 0)}
	view := BuildDayView(in, nil, nil)
	if len(view) != 18 {
		t.Fatalf("zero interval should fall back to %d minutes, got %d units", BlockStepMinutes, len(view))
	}
}

func TestBuildDayViewBlockEdges(t *testing.T) {
	blocks := []models.TimeSlot{
		{BarberID: 5, StartTime: at(10, 0), EndTime: at(11, 0), IsBooked: true},
	}
	in := DayViewInput{BarberID: 5, Date: at(0, 0), IntervalMin: 30, Now: at(0, 0)}

	view := BuildDayView(in, nil, blocks)

	byStart := map[time.Time]StateKind{}
	for _, u := range view {
		byStart[u.Start] = u.Kind
	}

	if byStart[at(10, 0)] != StateBlocked || byStart[at(10, 30)] != StateBlocked {
		t.Error("units inside the block are not blocked")
	}
	if byStart[at(11, 0)] != StateAvailable {
		t.Error("unit starting at the block's end must be available")
	}
}
