package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// RegisterStaff registers the front-of-house endpoints: the reservation
// lifecycle beyond booking, the floor map and the walk-in waitlist.
func RegisterStaff(e *echo.Echo, h *handler.Handler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STAFF"))

	g.POST("/reservations/:id/confirm", h.ConfirmReservation)
	g.POST("/reservations/:id/checkin", h.CheckIn)
	g.POST("/reservations/:id/complete", h.Complete)
	g.POST("/reservations/:id/no-show", h.MarkNoShow)

	g.GET("/restaurants/:id/tables", h.ListTables)
	g.PUT("/tables/:id/status", h.SetTableStatus)

	g.POST("/restaurants/:id/waitlist", h.Enqueue)
	g.GET("/restaurants/:id/waitlist", h.ListWaitlist)
	g.POST("/waitlist/:id/reorder", h.ReorderWaitlist)
	g.DELETE("/waitlist/:id", h.RemoveWaitlistEntry)
}
