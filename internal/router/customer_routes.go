package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// RegisterCustomer registers the authenticated diner-facing endpoints.
// Staff share these routes (the podium books and cancels on a guest's
// behalf), so both roles are accepted; ownership rules are enforced in
// the engine, not here.
func RegisterCustomer(e *echo.Echo, h *handler.Handler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "STAFF"))

	g.POST("/restaurants/:id/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.POST("/reservations/:id/cancel", h.CancelReservation)
}
