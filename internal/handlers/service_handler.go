package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/httperr"
	"github.com/fadecraft/barbershop-api/internal/httpresp"
	"github.com/fadecraft/barbershop-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service

	q := h.db.Order("id ASC")
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}

	if err := q.Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Internal server error.")
		return
	}

	httpresp.OK(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service ID.")
		return
	}

	var service models.Service
	if err := h.db.First(&service, id).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	httpresp.OK(c, service)
}

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=haircut beard combo womens-haircut womens-styling womens-color"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"required,gt=0"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
}

// Create adds a catalogue entry. Admin only; services are otherwise
// immutable reference data.
func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service := models.Service{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Internal server error.")
		return
	}

	httpresp.Created(c, service)
}
