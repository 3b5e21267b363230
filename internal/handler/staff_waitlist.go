package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Enqueue handles POST /v1/restaurants/:id/waitlist.  Front-of-house
// registers a walk-in party; the entry joins the back of the queue.
func (h *Handler) Enqueue(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var body struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		PartySize int    `json:"party_size"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	entry, err := h.Engine.Enqueue(c.Request().Context(), act, restaurantID, body.Name, body.Phone, body.PartySize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": entry})
}

// ListWaitlist handles GET /v1/restaurants/:id/waitlist.  The queue is
// returned in priority order, assigned entries included so staff can see
// outstanding offers.
func (h *Handler) ListWaitlist(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	items, err := h.Engine.ListWaitlist(c.Request().Context(), restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ReorderWaitlist handles POST /v1/waitlist/:id/reorder with a body of
// {"direction": "up"|"down"}.  Moving past the edge of the queue is a
// no-op rather than an error.
func (h *Handler) ReorderWaitlist(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	var body struct {
		Direction string `json:"direction"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var up bool
	switch body.Direction {
	case "up":
		up = true
	case "down":
		up = false
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "direction must be up or down"})
	}
	entry, err := h.Engine.Reorder(c.Request().Context(), act, entryID, up)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": entry})
}

// RemoveWaitlistEntry handles DELETE /v1/waitlist/:id.  Removing an
// already removed entry succeeds silently.
func (h *Handler) RemoveWaitlistEntry(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	if err := h.Engine.RemoveEntry(c.Request().Context(), act, entryID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
