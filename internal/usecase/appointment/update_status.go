package appointment

import (
	"context"
	"time"

	"github.com/fadecraft/barbershop-api/internal/audit"
	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/models"
)

type UpdateAppointmentInput struct {
	Status *string
	Date   *time.Time
	Notes  *string

	ActorUserID uint
}

// UpdateAppointment applies a partial update. Status values go through the
// transition table; cancellation is a status change, never a delete.
type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	ap *models.Appointment,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if in.Status != nil {
		if !domain.IsValidStatus(*in.Status) {
			return nil, httperr.ErrBusiness("invalid_status", "Invalid appointment status.")
		}
		if err := domain.CanTransition(domain.Status(ap.Status), domain.Status(*in.Status)); err != nil {
			return nil, err
		}
		ap.Status = *in.Status
	}

	if in.Date != nil {
		ap.Date = *in.Date
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorUserID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
