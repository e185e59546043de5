package handlers

import (
	"bytes"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/httpresp"
	"github.com/fadecraft/barbershop-api/internal/imaging"
	"github.com/fadecraft/barbershop-api/internal/models"
	"github.com/fadecraft/barbershop-api/internal/storage"
)

type BarberHandler struct {
	db     *gorm.DB
	images *storage.ImageStore
}

func NewBarberHandler(db *gorm.DB, images *storage.ImageStore) *BarberHandler {
	return &BarberHandler{db: db, images: images}
}

func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.Preload("User").Order("id ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Internal server error.")
		return
	}

	httpresp.OK(c, barbers)
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber ID.")
		return
	}

	var barber models.Barber
	if err := h.db.Preload("User").First(&barber, id).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	httpresp.OK(c, barber)
}

// GetByUser resolves the barber profile behind a user account, used by the
// dashboard after login.
func (h *BarberHandler) GetByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		httperr.BadRequest(c, "invalid_user_id", "Invalid user ID.")
		return
	}

	var barber models.Barber
	if err := h.db.Where("user_id = ?", userID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	httpresp.OK(c, barber)
}

// UploadImage accepts a multipart photo, converts it to webp and stores it
// in the image bucket. Admins may set any barber's photo, barbers their own.
func (h *BarberHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber ID.")
		return
	}

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	if !barberOwns(c, h.db, barber.ID) {
		httperr.Forbidden(c, "access_denied", "You can only change your own photo.")
		return
	}

	if !h.images.Enabled() {
		httperr.Internal(c, "image_store_disabled", "Image uploads are not configured.")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "An image file is required.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Internal server error.")
		return
	}
	defer src.Close()

	converted, err := imaging.ToWebP(src)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The file is not a decodable image.")
		return
	}

	key := fmt.Sprintf("barbers/%d/%s.webp", barber.ID, uuid.NewString())
	url, err := h.images.Put(c.Request.Context(), key, bytes.NewReader(converted), "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_store_image", "Internal server error.")
		return
	}

	barber.Image = url
	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Internal server error.")
		return
	}

	httpresp.OK(c, barber)
}
