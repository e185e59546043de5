package appointment

import (
	"context"
	"time"

	"github.com/fadecraft/barbershop-api/internal/audit"
	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID    uint
	BarberID  uint
	ServiceID uint
	Date      time.Time
	Notes     string

	ActorUserID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// 1. Referenced rows must exist.
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found", "Service not found.")
	}

	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		return nil, httperr.ErrBusiness("barber_not_found", "Barber not found.")
	}

	// 2. The end is implied by the service duration.
	end := in.Date.Add(time.Duration(service.Duration) * time.Minute)

	// 3. Conflict check and insert share one transaction.
	ap := &models.Appointment{
		UserID:    in.UserID,
		BarberID:  in.BarberID,
		ServiceID: in.ServiceID,
		Date:      in.Date,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointmentChecked(ctx, ap, end); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorUserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
