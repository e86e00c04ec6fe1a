package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/service"
)

type AppointmentHandler struct {
	appointments service.AppointmentService
}

func NewAppointmentHandler(appointments service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type bookRequest struct {
	SlotID uint   `json:"slotId" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.appointments.Book(currentUserID(c), req.SlotID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	views, err := h.appointments.MyAppointments(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	if err := h.appointments.Cancel(currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment cancelled"})
}

type rescheduleRequest struct {
	NewSlotID uint    `json:"newSlotId" binding:"required"`
	Notes     *string `json:"notes"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.appointments.Reschedule(currentUserID(c), id, req.NewSlotID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	views, err := h.appointments.AllAppointments()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus decodes the closed admin status enum at the boundary; a
// value outside APPROVED/REJECTED never reaches the state machine.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := domain.ParseAdminStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.appointments.UpdateStatusByAdmin(id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return 0, err
	}
	return uint(id), nil
}
