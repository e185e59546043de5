package dto

import (
	"time"

	"github.com/fadecraft/barbershop-api/internal/models"
)

// AppointmentDetailsDTO is an appointment enriched with the display fields
// each client screen needs, mirroring the per-role appointment lists.
type AppointmentDetailsDTO struct {
	ID        uint      `json:"id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User    UserSummary    `json:"user"`
	Barber  BarberSummary  `json:"barber"`
	Service ServiceSummary `json:"service"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type BarberSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality,omitempty"`
	Image      string `json:"image,omitempty"`
}

type ServiceSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Duration int    `json:"duration"`
}

// NewAppointmentDetails builds the enriched payload. The barber display name
// comes from the linked user when one exists.
func NewAppointmentDetails(
	ap *models.Appointment,
	user *models.User,
	barber *models.Barber,
	service *models.Service,
) AppointmentDetailsDTO {

	barberName := "Unknown"
	if barber.User != nil {
		barberName = barber.User.DisplayName()
	}

	return AppointmentDetailsDTO{
		ID:        ap.ID,
		Date:      ap.Date,
		Status:    ap.Status,
		Notes:     ap.Notes,
		CreatedAt: ap.CreatedAt,
		User: UserSummary{
			ID:       user.ID,
			FullName: user.DisplayName(),
			Email:    user.Email,
			Phone:    user.Phone,
		},
		Barber: BarberSummary{
			ID:         barber.ID,
			Name:       barberName,
			Speciality: barber.Speciality,
			Image:      barber.Image,
		},
		Service: ServiceSummary{
			ID:       service.ID,
			Name:     service.Name,
			Price:    service.Price,
			Duration: service.Duration,
		},
	}
}
