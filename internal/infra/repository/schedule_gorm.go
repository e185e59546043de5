package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/fadecraft/barbershop-api/internal/domain/schedule"
	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// lockForUpdate applies a FOR UPDATE row lock on dialects that support it.
// The sqlite test database runs the same queries without the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).Preload("User").First(&barber, id).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *ScheduleGormRepository) GetBarberByUserID(
	ctx context.Context,
	userID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Time slots
// --------------------------------------------------

func (r *ScheduleGormRepository) ListSlotsForDay(
	ctx context.Context,
	barberID uint,
	day time.Time,
) ([]models.TimeSlot, error) {

	start, end := domain.DayBounds(day)

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID, start, end,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *ScheduleGormRepository) EnsureDaySlots(
	ctx context.Context,
	barberID uint,
	day time.Time,
) ([]models.TimeSlot, error) {

	start, end := domain.DayBounds(day)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE cannot wrap an aggregate, so lock the rows themselves.
		var existing []models.TimeSlot
		if err := lockForUpdate(tx).
			Select("id").
			Where(
				"barber_id = ? AND start_time >= ? AND start_time < ?",
				barberID, start, end,
			).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			return nil
		}

		slots := domain.DefaultDaySlots(barberID, start)
		return tx.Create(&slots).Error
	})
	if err != nil {
		return nil, err
	}

	return r.ListSlotsForDay(ctx, barberID, day)
}

func (r *ScheduleGormRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) CreateSlotChecked(
	ctx context.Context,
	slot *models.TimeSlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// A manual block must land on a unit that is still available. The
		// day's rows stay locked until the insert commits so two concurrent
		// blocks over the same range cannot both pass.
		if slot.IsBooked {
			start, end := domain.DayBounds(slot.StartTime)

			var appointments []models.Appointment
			if err := lockForUpdate(tx).
				Where(
					"barber_id = ? AND date >= ? AND date < ?",
					slot.BarberID, start, end,
				).
				Find(&appointments).Error; err != nil {
				return err
			}

			var blocks []models.TimeSlot
			if err := lockForUpdate(tx).
				Where(
					"barber_id = ? AND start_time >= ? AND start_time < ?",
					slot.BarberID, start, end,
				).
				Find(&blocks).Error; err != nil {
				return err
			}

			state := domain.Classify(slot.StartTime, slot.EndTime, appointments, blocks)
			if state.Kind != domain.StateAvailable {
				return httperr.ErrBusiness("time_conflict", "The chosen start time is not available.")
			}
		}

		return tx.Create(slot).Error
	})
}

func (r *ScheduleGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *ScheduleGormRepository) DeleteSlotGuarded(
	ctx context.Context,
	slot *models.TimeSlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.TimeSlot
		if err := lockForUpdate(tx).First(&current, slot.ID).Error; err != nil {
			return err
		}

		var appointments []models.Appointment
		if err := tx.
			Where("barber_id = ?", current.BarberID).
			Find(&appointments).Error; err != nil {
			return err
		}

		if err := domain.CanDeleteSlot(&current, appointments); err != nil {
			return err
		}

		return tx.Delete(&models.TimeSlot{}, current.ID).Error
	})
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForBarber(
	ctx context.Context,
	barberID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	barberID uint,
	day time.Time,
) ([]models.Appointment, error) {

	start, end := domain.DayBounds(day)

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where(
			"barber_id = ? AND date >= ? AND date < ?",
			barberID, start, end,
		).
		Order("date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *ScheduleGormRepository) CreateAppointmentChecked(
	ctx context.Context,
	ap *models.Appointment,
	end time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Lock the barber's active appointments around the candidate range,
		// then test overlap against each one's service duration. The end of
		// an appointment is implied, not stored, so the comparison happens
		// here rather than in SQL.
		var existing []models.Appointment
		if err := lockForUpdate(tx).
			Preload("Service").
			Where(
				"barber_id = ? AND status IN ? AND date < ?",
				ap.BarberID,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
				end,
			).
			Find(&existing).Error; err != nil {
			return err
		}

		for i := range existing {
			exEnd := existing[i].Date.Add(time.Duration(existing[i].Service.Duration) * time.Minute)
			if existing[i].Date.Before(end) && exEnd.After(ap.Date) {
				return httperr.ErrBusiness("time_conflict", "The barber already has an appointment in this time range.")
			}
		}

		return tx.Create(ap).Error
	})
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Appointment{}, id).Error
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
