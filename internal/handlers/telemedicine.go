package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/telemedicine"
	"clinic-booking-server/internal/utils"
)

// TelemedicineHandler handles video consultation session requests.
type TelemedicineHandler struct {
	Service *telemedicine.Service
}

// NewTelemedicineHandler creates a new TelemedicineHandler.
func NewTelemedicineHandler(service *telemedicine.Service) *TelemedicineHandler {
	return &TelemedicineHandler{Service: service}
}

func callerFromContext(c *gin.Context) (telemedicine.Party, bool) {
	userID, okID := middleware.GetUserIDFromContext(c)
	role, okRole := middleware.GetUserRoleFromContext(c)
	if !okID || !okRole {
		return telemedicine.Party{}, false
	}
	return telemedicine.Party{UserID: userID, Role: role}, true
}

// CreateSession gets or creates the session for a telemedicine appointment.
func (h *TelemedicineHandler) CreateSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	info, err := h.Service.GetOrCreate(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Session ready", info)
}

// GetSession returns the existing session for an appointment.
func (h *TelemedicineHandler) GetSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	info, err := h.Service.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Session fetched successfully", info)
}

// StartSession records the caller's join and starts the session on first join.
func (h *TelemedicineHandler) StartSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.Service.Start(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Session started", session)
}

// EndSessionRequest carries the optional wrap-up details.
type EndSessionRequest struct {
	Notes             string `json:"notes" binding:"omitempty,max=5000"`
	ConnectionQuality string `json:"connectionQuality" binding:"omitempty,oneof=excellent good fair poor"`
}

// EndSession completes the session and records its duration.
func (h *TelemedicineHandler) EndSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req EndSessionRequest
	if !utils.BindAndValidateOptional(c, &req) {
		return
	}

	session, err := h.Service.End(c.Request.Context(), caller, c.Param("id"), telemedicine.EndInput{
		Notes:             req.Notes,
		ConnectionQuality: req.ConnectionQuality,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Session ended", session)
}

// GetSessionHistory lists the caller's sessions, newest first.
func (h *TelemedicineHandler) GetSessionHistory(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sessions, err := h.Service.History(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, "Sessions fetched successfully", sessions)
}

func (h *TelemedicineHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, telemedicine.ErrNotParticipant):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, telemedicine.ErrNotRemote), errors.Is(err, telemedicine.ErrNotConfirmed):
		utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, telemedicine.ErrSessionNotFound), errors.Is(err, telemedicine.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	default:
		utils.InternalServerError(c, "Internal error while processing the session")
	}
}
