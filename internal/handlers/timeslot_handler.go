package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/httpresp"
	"github.com/fadecraft/barbershop-api/internal/models"
	"github.com/fadecraft/barbershop-api/internal/timezone"
	ucSchedule "github.com/fadecraft/barbershop-api/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type TimeSlotHandler struct {
	db *gorm.DB

	ensureDaySlots *ucSchedule.EnsureDaySlots
	blockSlot      *ucSchedule.BlockSlot
	unblockSlot    *ucSchedule.UnblockSlot
	dayView        *ucSchedule.DayView
}

func NewTimeSlotHandler(
	db *gorm.DB,
	ensureDaySlots *ucSchedule.EnsureDaySlots,
	blockSlot *ucSchedule.BlockSlot,
	unblockSlot *ucSchedule.UnblockSlot,
	dayView *ucSchedule.DayView,
) *TimeSlotHandler {
	return &TimeSlotHandler{
		db:             db,
		ensureDaySlots: ensureDaySlots,
		blockSlot:      blockSlot,
		unblockSlot:    unblockSlot,
		dayView:        dayView,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTimeSlotRequest struct {
	BarberID  uint   `json:"barberId" binding:"required"`
	StartTime string `json:"startTime" binding:"required,rfc3339"`
	EndTime   string `json:"endTime" binding:"required,rfc3339"`
	IsBooked  bool   `json:"isBooked"`
}

type UpdateTimeSlotRequest struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	IsBooked  *bool   `json:"isBooked"`
}

// ======================================================
// LIST (materializes the default grid on first touch)
// ======================================================

func (h *TimeSlotHandler) List(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Query("barberId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber ID.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format.")
		return
	}

	slots, err := h.ensureDaySlots.Execute(c.Request.Context(), uint(barberID), date)
	if err != nil {
		if httperr.IsBusiness(err, "barber_not_found") {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return
		}
		httperr.Internal(c, "failed_to_list_slots", "Internal server error.")
		return
	}

	httpresp.OK(c, slots)
}

// ======================================================
// GET ONE
// ======================================================

func (h *TimeSlotHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid time slot ID.")
		return
	}

	var slot models.TimeSlot
	if err := h.db.First(&slot, id).Error; err != nil {
		httperr.NotFound(c, "slot_not_found", "Time slot not found.")
		return
	}

	httpresp.OK(c, slot)
}

// ======================================================
// SCHEDULE VIEW (reconciled calendar rows)
// ======================================================

func (h *TimeSlotHandler) Schedule(c *gin.Context) {
	barberID, err := strconv.ParseUint(c.Query("barberId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber ID.")
		return
	}

	if !barberOwns(c, h.db, uint(barberID)) {
		httperr.Forbidden(c, "access_denied", "You can only view your own schedule.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}
	date, err := parseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format.")
		return
	}

	view, err := h.dayView.Execute(c.Request.Context(), uint(barberID), date, timezone.Now())
	if err != nil {
		if httperr.IsBusiness(err, "barber_not_found") {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return
		}
		httperr.Internal(c, "failed_to_build_schedule", "Internal server error.")
		return
	}

	httpresp.OK(c, view)
}

// ======================================================
// CREATE (manual block or availability row)
// ======================================================

func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Barber ID, start time, and end time are required.")
		return
	}

	if !barberOwns(c, h.db, req.BarberID) {
		httperr.Forbidden(c, "access_denied", "Barbers can only create time slots for themselves.")
		return
	}

	start, err := parseInstant(req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time", "Invalid start time.")
		return
	}
	end, err := parseInstant(req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_time", "Invalid end time.")
		return
	}

	actor := callerIdentity(c)

	slot, err := h.blockSlot.Execute(c.Request.Context(), ucSchedule.BlockSlotInput{
		BarberID:    req.BarberID,
		StartTime:   start,
		EndTime:     end,
		IsBooked:    req.IsBooked,
		ActorUserID: actor.UserID,
	}, timezone.Now())
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			httperr.Conflict(c, be.Code, be.Message)
			return
		}
		httperr.Internal(c, "failed_to_create_slot", "Internal server error.")
		return
	}

	httpresp.Created(c, slot)
}

// ======================================================
// UPDATE
// ======================================================

func (h *TimeSlotHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid time slot ID.")
		return
	}

	var slot models.TimeSlot
	if err := h.db.First(&slot, id).Error; err != nil {
		httperr.NotFound(c, "slot_not_found", "Time slot not found.")
		return
	}

	if !barberOwns(c, h.db, slot.BarberID) {
		httperr.Forbidden(c, "access_denied", "Barbers can only update their own time slots.")
		return
	}

	var req UpdateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.StartTime != nil {
		start, err := parseInstant(*req.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_start_time", "Invalid start time.")
			return
		}
		slot.StartTime = start
	}
	if req.EndTime != nil {
		end, err := parseInstant(*req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_time", "Invalid end time.")
			return
		}
		slot.EndTime = end
	}
	if req.IsBooked != nil {
		slot.IsBooked = *req.IsBooked
	}

	if !slot.EndTime.After(slot.StartTime) {
		httperr.BadRequest(c, "invalid_range", "End time must be after start time.")
		return
	}

	if err := h.db.Save(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_update_slot", "Internal server error.")
		return
	}

	httpresp.OK(c, slot)
}

// ======================================================
// DELETE (unblock)
// ======================================================

func (h *TimeSlotHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid time slot ID.")
		return
	}

	var slot models.TimeSlot
	if err := h.db.First(&slot, id).Error; err != nil {
		httperr.NotFound(c, "slot_not_found", "Time slot not found.")
		return
	}

	if !barberOwns(c, h.db, slot.BarberID) {
		httperr.Forbidden(c, "access_denied", "Barbers can only delete their own time slots.")
		return
	}

	actor := callerIdentity(c)

	if err := h.unblockSlot.Execute(c.Request.Context(), &slot, actor.UserID); err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			httperr.Conflict(c, be.Code, be.Message)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "slot_not_found", "Time slot not found.")
			return
		}
		httperr.Internal(c, "failed_to_delete_slot", "Internal server error.")
		return
	}

	httpresp.NoContent(c)
}
