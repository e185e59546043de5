package schedule

import (
	"context"
	"time"

	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/models"
)

// EnsureDaySlots backs GET /api/time-slots: returns the persisted slots for
// a (barber, date) pair, materializing the default hourly grid on first
// touch. Idempotent after that.
type EnsureDaySlots struct {
	repo domain.Repository
}

func NewEnsureDaySlots(repo domain.Repository) *EnsureDaySlots {
	return &EnsureDaySlots{repo: repo}
}

func (uc *EnsureDaySlots) Execute(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]models.TimeSlot, error) {

	if _, err := uc.repo.GetBarber(ctx, barberID); err != nil {
		return nil, httperr.ErrBusiness("barber_not_found", "Barber not found.")
	}

	return uc.repo.EnsureDaySlots(ctx, barberID, date)
}
