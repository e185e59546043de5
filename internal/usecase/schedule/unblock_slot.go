package schedule

import (
	"context"

	"github.com/fadecraft/barbershop-api/internal/audit"
	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/models"
)

// UnblockSlot deletes a manual block, reverting its range to available. The
// guard (blocked flag set, no appointment at the exact start minute) runs
// inside the repository transaction.
type UnblockSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUnblockSlot(repo domain.Repository, audit *audit.Dispatcher) *UnblockSlot {
	return &UnblockSlot{repo: repo, audit: audit}
}

func (uc *UnblockSlot) Execute(
	ctx context.Context,
	slot *models.TimeSlot,
	actorUserID uint,
) error {

	if err := uc.repo.DeleteSlotGuarded(ctx, slot); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorUserID,
		Action:   "slot_deleted",
		Entity:   "time_slot",
		EntityID: &slot.ID,
	})

	return nil
}
