package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"clinic-booking-server/internal/availability"
	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/handlers"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/notify"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/telemedicine"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, dispatcher *notify.Dispatcher, log *logrus.Logger) {
	// Initialize services and handlers
	schedulingService := scheduling.NewService(scheduling.NewRepository(db), dispatcher, log)
	telemedicineService := telemedicine.NewService(telemedicine.NewRepository(db), cfg.VideoRoomBaseURL, log)

	appointmentHandler := handlers.NewAppointmentHandler(schedulingService)
	telemedicineHandler := handlers.NewTelemedicineHandler(telemedicineService)
	doctorHandler := handlers.NewDoctorHandler(db, availability.NewCalculator())

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		// Doctor directory, readable by any authenticated user
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
			doctorRoutes.GET("/:id/availability", doctorHandler.CheckAvailability)
		}

		// Patient-scoped appointment routes
		patientRoutes := private.Group("/patient")
		patientRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient))
		{
			patientRoutes.POST("/appointments", appointmentHandler.CreateAppointment)
			patientRoutes.GET("/appointments", appointmentHandler.GetPatientAppointments)
			patientRoutes.GET("/appointments/stats", appointmentHandler.GetPatientStats)
			patientRoutes.DELETE("/appointments/:id", appointmentHandler.CancelAppointment)
		}

		// Doctor-scoped appointment routes
		doctorScoped := private.Group("/doctor")
		doctorScoped.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			doctorScoped.GET("/appointments", appointmentHandler.GetDoctorAppointments)
			doctorScoped.GET("/appointments/:id", appointmentHandler.GetDoctorAppointmentByID)
			doctorScoped.PUT("/working-hours", doctorHandler.UpdateWorkingHours)
		}

		// Telemedicine session routes; participant checks happen in the service
		telemedicineRoutes := private.Group("/telemedicine")
		telemedicineRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor))
		{
			telemedicineRoutes.POST("/appointments/:id/session", telemedicineHandler.CreateSession)
			telemedicineRoutes.GET("/appointments/:id/session", telemedicineHandler.GetSession)
			telemedicineRoutes.POST("/sessions/:id/start", telemedicineHandler.StartSession)
			telemedicineRoutes.POST("/sessions/:id/end", telemedicineHandler.EndSession)
			telemedicineRoutes.GET("/sessions", telemedicineHandler.GetSessionHistory)
		}

		// Admin routes
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/stats/global", appointmentHandler.GetGlobalStats)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
