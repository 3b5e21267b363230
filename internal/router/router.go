package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
)

// RegisterRoutes registers routes that require no authentication: the
// health check, the Prometheus scrape endpoint, the public slot grid and
// the payment collaborator's deposit callback.  slotCache wraps only the
// slot listing; caching anything else here would serve stale health or
// scrape data.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, slotCache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Guests browse availability before signing in; bookings re-check
	// everything, so this can stay open and cacheable.
	e.GET("/v1/restaurants/:id/slots", h.GetSlots, slotCache)

	// The payment provider calls back without a user token; the deposit
	// reference itself is the credential.
	e.POST("/v1/payments/confirm", h.ConfirmDeposit)
}
