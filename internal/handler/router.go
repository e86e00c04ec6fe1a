package handler

import (
	"github.com/gin-gonic/gin"
)

// Deps bundles everything the router needs.
type Deps struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Slots        *SlotHandler
	Appointments *AppointmentHandler
	JWTSecret    string
}

// NewRouter wires the HTTP surface. Booking routes require a valid token;
// admin routes additionally require the ADMIN role.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)

	api.GET("/services", deps.Catalog.ListServices)
	api.GET("/doctors", deps.Catalog.ListDoctors)
	api.GET("/slots/available", deps.Slots.ListAvailable)
	api.GET("/slots", deps.Slots.DaySchedule)

	authed := api.Group("")
	authed.Use(Authenticate(deps.JWTSecret))
	authed.POST("/appointments", deps.Appointments.Book)
	authed.GET("/appointments", deps.Appointments.ListMine)
	authed.DELETE("/appointments/:id", deps.Appointments.Cancel)
	authed.PUT("/appointments/:id/reschedule", deps.Appointments.Reschedule)

	admin := api.Group("/admin")
	admin.Use(Authenticate(deps.JWTSecret), RequireAdmin())
	admin.POST("/slots", deps.Slots.Create)
	admin.GET("/appointments", deps.Appointments.ListAll)
	admin.PUT("/appointments/:id/status", deps.Appointments.UpdateStatus)

	return router
}
