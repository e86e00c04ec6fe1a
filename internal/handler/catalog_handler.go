package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/careslot/appointment-booking-service/internal/repository"
)

// CatalogHandler serves the read-only service/doctor reference data.
type CatalogHandler struct {
	catalog repository.CatalogRepository
}

func NewCatalogHandler(catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	if raw := c.Query("serviceId"); raw != "" {
		serviceID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid serviceId"})
			return
		}
		doctors, err := h.catalog.ListDoctorsByService(uint(serviceID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doctors)
		return
	}

	doctors, err := h.catalog.ListDoctors()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}
