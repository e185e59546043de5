package schedule

import (
	"context"
	"time"

	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/httperr"
)

// DayView merges the barber's appointments and manual blocks into the
// reconciled calendar rows for one day. The appointment cross-check is not
// optional: booked times are only excluded from "available" here, never by
// the slot rows themselves.
type DayView struct {
	repo domain.Repository
}

func NewDayView(repo domain.Repository) *DayView {
	return &DayView{repo: repo}
}

func (uc *DayView) Execute(
	ctx context.Context,
	barberID uint,
	date time.Time,
	now time.Time,
) ([]domain.SlotState, error) {

	barber, err := uc.repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, httperr.ErrBusiness("barber_not_found", "Barber not found.")
	}

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListSlotsForDay(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	view := domain.BuildDayView(domain.DayViewInput{
		BarberID:    barberID,
		Date:        date,
		IntervalMin: barber.SlotIntervalMin,
		Now:         now,
	}, appointments, slots)

	return view, nil
}
