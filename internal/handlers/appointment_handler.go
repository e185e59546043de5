package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/dto"
	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/httpresp"
	"github.com/fadecraft/barbershop-api/internal/models"
	ucAppointment "github.com/fadecraft/barbershop-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createAppointment *ucAppointment.CreateAppointment
	updateAppointment *ucAppointment.UpdateAppointment
	deleteAppointment *ucAppointment.DeleteAppointment
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	del *ucAppointment.DeleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:                db,
		createAppointment: create,
		updateAppointment: update,
		deleteAppointment: del,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	BarberID  uint   `json:"barberId" binding:"required"`
	ServiceID uint   `json:"serviceId" binding:"required"`
	Date      string `json:"date" binding:"required,rfc3339"`
	Notes     string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
	Date   *string `json:"date"`
	Notes  *string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) enrich(ap *models.Appointment) (dto.AppointmentDetailsDTO, error) {
	var (
		user    models.User
		barber  models.Barber
		service models.Service
	)

	if err := h.db.First(&user, ap.UserID).Error; err != nil {
		return dto.AppointmentDetailsDTO{}, err
	}
	if err := h.db.Preload("User").First(&barber, ap.BarberID).Error; err != nil {
		return dto.AppointmentDetailsDTO{}, err
	}
	if err := h.db.First(&service, ap.ServiceID).Error; err != nil {
		return dto.AppointmentDetailsDTO{}, err
	}

	return dto.NewAppointmentDetails(ap, &user, &barber, &service), nil
}

// canAccess applies the per-role ownership rule shared by update and delete.
func (h *AppointmentHandler) canAccess(c *gin.Context, ap *models.Appointment) bool {
	id := callerIdentity(c)

	switch id.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return ap.UserID == id.UserID
	case models.RoleBarber:
		own, ok := callerBarberID(c, h.db)
		return ok && own == ap.BarberID
	}
	return false
}

// ======================================================
// LIST (role-scoped)
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	id := callerIdentity(c)

	q := h.db.Model(&models.Appointment{}).Order("date ASC")

	switch id.Role {
	case models.RoleClient:
		q = q.Where("user_id = ?", id.UserID)
	case models.RoleBarber:
		barberID, ok := callerBarberID(c, h.db)
		if !ok {
			httperr.NotFound(c, "barber_not_found", "Barber profile not found.")
			return
		}
		q = q.Where("barber_id = ?", barberID)
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Internal server error.")
		return
	}

	out := make([]dto.AppointmentDetailsDTO, 0, len(aps))
	for i := range aps {
		enriched, err := h.enrich(&aps[i])
		if err != nil {
			// Skip rows whose related data is gone.
			continue
		}
		out = append(out, enriched)
	}

	httpresp.OK(c, out)
}

// ======================================================
// CREATE (booking or walk-in)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	date, err := parseInstant(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format.")
		return
	}

	id := callerIdentity(c)

	switch id.Role {
	case models.RoleClient:
		if req.UserID != id.UserID {
			httperr.Forbidden(c, "access_denied", "You can only book appointments for yourself.")
			return
		}
	case models.RoleBarber:
		own, ok := callerBarberID(c, h.db)
		if !ok || own != req.BarberID {
			httperr.Forbidden(c, "access_denied", "You can only create appointments for your own slots.")
			return
		}
	}

	ap, err := h.createAppointment.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:      req.UserID,
		BarberID:    req.BarberID,
		ServiceID:   req.ServiceID,
		Date:        date,
		Notes:       req.Notes,
		ActorUserID: id.UserID,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "service_not_found"):
			httperr.NotFound(c, "service_not_found", "Service not found.")
		case httperr.IsBusiness(err, "barber_not_found"):
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
		case httperr.IsBusiness(err, "time_conflict") || httperr.IsExclusionConflict(err):
			httperr.Conflict(c, "time_conflict", "The barber already has an appointment in this time range.")
		default:
			httperr.Internal(c, "failed_to_create_appointment", "Internal server error.")
		}
		return
	}

	enriched, err := h.enrich(ap)
	if err != nil {
		httperr.Internal(c, "failed_to_enrich_appointment", "Failed to fetch appointment details.")
		return
	}

	httpresp.Created(c, enriched)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	apID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment ID.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, apID).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if !h.canAccess(c, &ap) {
		httperr.Forbidden(c, "access_denied", "You can only update your own appointments.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		Status:      req.Status,
		Notes:       req.Notes,
		ActorUserID: callerIdentity(c).UserID,
	}
	if req.Date != nil {
		date, err := parseInstant(*req.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date format.")
			return
		}
		in.Date = &date
	}

	updated, err := h.updateAppointment.Execute(c.Request.Context(), &ap, in)
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			httperr.BadRequest(c, be.Code, be.Message)
			return
		}
		httperr.Internal(c, "failed_to_update_appointment", "Internal server error.")
		return
	}

	enriched, err := h.enrich(updated)
	if err != nil {
		httperr.Internal(c, "failed_to_enrich_appointment", "Failed to fetch appointment details.")
		return
	}

	httpresp.OK(c, enriched)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	apID, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment ID.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, apID).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if !h.canAccess(c, &ap) {
		httperr.Forbidden(c, "access_denied", "You can only delete your own appointments.")
		return
	}

	if err := h.deleteAppointment.Execute(c.Request.Context(), ap.ID, callerIdentity(c).UserID); err != nil {
		httperr.Internal(c, "failed_to_delete_appointment", "Internal server error.")
		return
	}

	httpresp.NoContent(c)
}
