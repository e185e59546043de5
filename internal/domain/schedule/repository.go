package schedule

import (
	"context"
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

type Repository interface {
	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	GetBarberByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Barber, error)

	// -------- Time slots --------
	ListSlotsForDay(
		ctx context.Context,
		barberID uint,
		day time.Time,
	) ([]models.TimeSlot, error)

	// EnsureDaySlots returns the persisted slots for the day, materializing
	// the default grid first when none exist. Atomic: two concurrent first
	// touches must not duplicate the grid.
	EnsureDaySlots(
		ctx context.Context,
		barberID uint,
		day time.Time,
	) ([]models.TimeSlot, error)

	GetSlot(
		ctx context.Context,
		id uint,
	) (*models.TimeSlot, error)

	// CreateSlotChecked inserts the slot after verifying, in one
	// transaction, that a manual block's start unit is still available.
	CreateSlotChecked(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	UpdateSlot(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	// DeleteSlotGuarded re-checks CanDeleteSlot against current appointments
	// and deletes in the same transaction.
	DeleteSlotGuarded(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	// -------- Appointments --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsForBarber(
		ctx context.Context,
		barberID uint,
	) ([]models.Appointment, error)

	ListAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		day time.Time,
	) ([]models.Appointment, error)

	// CreateAppointmentChecked inserts the appointment after verifying, in
	// one transaction, that no active appointment overlaps [start, end) for
	// the barber.
	CreateAppointmentChecked(
		ctx context.Context,
		ap *models.Appointment,
		end time.Time,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error
}
