package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-booking-server/internal/availability"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/utils"
)

// DoctorHandler serves the doctor directory, live availability and the
// doctor's own working-hours schedule.
type DoctorHandler struct {
	DB         *gorm.DB
	Calculator *availability.Calculator
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, calc *availability.Calculator) *DoctorHandler {
	return &DoctorHandler{DB: db, Calculator: calc}
}

// GetDoctors lists all doctors.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ?", models.RoleDoctor).Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors")
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByID returns a single doctor.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.User
	err := h.DB.Where("id = ? AND role = ?", c.Param("id"), models.RoleDoctor).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Doctor not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctor")
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// CheckAvailability returns the doctor's live availability derived from their
// weekly working hours.
func (h *DoctorHandler) CheckAvailability(c *gin.Context) {
	var doctor models.User
	err := h.DB.Where("id = ? AND role = ?", c.Param("id"), models.RoleDoctor).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Doctor not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctor")
		return
	}
	c.JSON(200, h.Calculator.Current(&doctor))
}

// UpdateWorkingHoursRequest represents the request body for updating a
// doctor's weekly schedule.
type UpdateWorkingHoursRequest struct {
	WorkingHours []workingHoursEntryRequest `json:"workingHours" binding:"required,dive"`
}

type workingHoursEntryRequest struct {
	Day   string `json:"day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Hours string `json:"hours" binding:"required"`
}

// UpdateWorkingHours replaces the authenticated doctor's weekly schedule.
func (h *DoctorHandler) UpdateWorkingHours(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor not authenticated")
		return
	}

	var req UpdateWorkingHoursRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	hours := make(models.WorkingHours, 0, len(req.WorkingHours))
	for _, entry := range req.WorkingHours {
		hours = append(hours, models.WorkingHoursEntry{Day: entry.Day, Hours: entry.Hours})
	}

	var doctor models.User
	err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Doctor not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctor")
		return
	}

	doctor.WorkingHours = hours
	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update working hours")
		return
	}

	utils.Success(c, "Working hours updated successfully", gin.H{
		"workingHours": doctor.WorkingHours,
	})
}
