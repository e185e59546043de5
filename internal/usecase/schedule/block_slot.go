package schedule

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

type BlockSlotInput struct {
	BarberID  uint
	StartTime time.Time
	EndTime   time.Time

	// True for a manual block, false for a plain availability row.
	IsBooked bool

	ActorUserID uint
}

// ======================================================
// USE CASE
// ======================================================

// BlockSlot creates one TimeSlot row. A manual block (IsBooked=true) spans
// the whole chosen range as a single row and must start on a unit that is
// currently available.
type BlockSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBlockSlot(repo domain.Repository, audit *audit.Dispatcher) *BlockSlot {
	return &BlockSlot{repo: repo, audit: audit}
}

func (uc *BlockSlot) Execute(
	ctx context.Context,
	in BlockSlotInput,
	now time.Time,
) (*models.TimeSlot, error) {

	if !in.EndTime.After(in.StartTime) {
		return nil, httperr.ErrBusiness("invalid_range", "End time must be after start time.")
	}

	if in.IsBooked {
		if err := domain.ValidateBlockRange(in.StartTime, in.EndTime, now); err != nil {
			return nil, err
		}
	}

	slot := &models.TimeSlot{
		BarberID:  in.BarberID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		IsBooked:  in.IsBooked,
	}

	// Availability re-check and insert share one transaction.
	if err := uc.repo.CreateSlotChecked(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorUserID,
		Action:   "slot_created",
		Entity:   "time_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
