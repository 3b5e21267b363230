package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetSlots handles GET /v1/restaurants/:id/slots.  It returns the slot
// grid for one restaurant, date and party size: each bookable start time
// with its availability, peak flag and deposit amount.  The endpoint is
// public and read-only; availability shown here is advisory and the
// booking endpoint re-checks it atomically.
//
// Query parameters: date (YYYY-MM-DD, required) and party_size
// (default 2).
func (h *Handler) GetSlots(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	partySize := 2
	if raw := c.QueryParam("party_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid party_size"})
		}
		partySize = n
	}
	slots, err := h.Engine.GetSlots(c.Request().Context(), restaurantID, date, partySize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"restaurant_id": restaurantID,
		"date":          date,
		"party_size":    partySize,
		"slots":         slots,
	})
}
