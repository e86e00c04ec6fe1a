package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careslot/appointment-booking-service/internal/service"
)

type SlotHandler struct {
	slots service.SlotService
}

func NewSlotHandler(slots service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// ListAvailable returns open slots filtered by optional doctorId and date
// query parameters.
func (h *SlotHandler) ListAvailable(c *gin.Context) {
	var doctorID *uint
	if raw := c.Query("doctorId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctorId"})
			return
		}
		v := uint(id)
		doctorID = &v
	}
	var date *string
	if raw := c.Query("date"); raw != "" {
		date = &raw
	}

	views, err := h.slots.AvailableSlots(doctorID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// DaySchedule returns every slot for a doctor and date, availability
// computed from live occupancy.
func (h *SlotHandler) DaySchedule(c *gin.Context) {
	raw := c.Query("doctorId")
	doctorID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctorId"})
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	views, err := h.slots.DaySchedule(uint(doctorID), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type createSlotRequest struct {
	DoctorID  uint   `json:"doctorId" binding:"required"`
	SlotDate  string `json:"slotDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime"`
}

// Create inserts a slot administratively.
func (h *SlotHandler) Create(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.slots.CreateSlot(req.DoctorID, req.SlotDate, req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
