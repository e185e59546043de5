package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fadecraft/barbershop-api/internal/audit"
	"github.com/fadecraft/barbershop-api/internal/config"
	"github.com/fadecraft/barbershop-api/internal/handlers"
	infraRepo "github.com/fadecraft/barbershop-api/internal/infra/repository"
	"github.com/fadecraft/barbershop-api/internal/middleware"
	"github.com/fadecraft/barbershop-api/internal/models"
	"github.com/fadecraft/barbershop-api/internal/storage"
	ucAppointment "github.com/fadecraft/barbershop-api/internal/usecase/appointment"
	ucSchedule "github.com/fadecraft/barbershop-api/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	imageStore := storage.NewImageStore(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	ensureDaySlotsUC := ucSchedule.NewEnsureDaySlots(scheduleRepo)
	blockSlotUC := ucSchedule.NewBlockSlot(scheduleRepo, auditDispatcher)
	unblockSlotUC := ucSchedule.NewUnblockSlot(scheduleRepo, auditDispatcher)
	dayViewUC := ucSchedule.NewDayView(scheduleRepo)

	createAppointmentUC := ucAppointment.NewCreateAppointment(scheduleRepo, auditDispatcher)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(scheduleRepo, auditDispatcher)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(scheduleRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	serviceHandler := handlers.NewServiceHandler(db)
	barberHandler := handlers.NewBarberHandler(db, imageStore)
	userHandler := handlers.NewUserHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	timeSlotHandler := handlers.NewTimeSlotHandler(
		db,
		ensureDaySlotsUC,
		blockSlotUC,
		unblockSlotUC,
		dayViewUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		authLimit := middleware.RateLimit(rdb, 10, time.Minute)
		api.POST("/auth/register", authLimit, authHandler.Register)
		api.POST("/auth/login", authLimit, authHandler.Login)

		// ------------------------------
		// PUBLIC REFERENCE DATA
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.GET("/barbers", barberHandler.List)
		api.GET("/barbers/:id", barberHandler.Get)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/auth/me", authHandler.Me)

			secured.GET("/barbers/by-user/:userId", barberHandler.GetByUser)

			// ------------------------------
			// TIME SLOTS
			// ------------------------------
			secured.GET("/time-slots", timeSlotHandler.List)
			secured.GET("/time-slots/:id", timeSlotHandler.Get)

			staffSlots := secured.Group("/time-slots")
			staffSlots.Use(middleware.RequireRoles(models.RoleBarber, models.RoleAdmin))
			{
				staffSlots.GET("/schedule", timeSlotHandler.Schedule)
				staffSlots.POST("", timeSlotHandler.Create)
				staffSlots.PATCH("/:id", timeSlotHandler.Update)
				staffSlots.DELETE("/:id", timeSlotHandler.Delete)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// ------------------------------
			// STAFF / ADMIN
			// ------------------------------
			staff := secured.Group("/")
			staff.Use(middleware.RequireRoles(models.RoleBarber, models.RoleAdmin))
			{
				staff.GET("/users", userHandler.List)
				staff.POST("/users", userHandler.Create)
				staff.POST("/barbers/:id/image", barberHandler.UploadImage)
			}

			admin := secured.Group("/")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.POST("/services", serviceHandler.Create)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
