package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ListTables handles GET /v1/restaurants/:id/tables, the staff floor
// map: every table with its capacity, position and current status.
func (h *Handler) ListTables(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	tables, err := h.Engine.ListTables(c.Request().Context(), restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// SetTableStatus handles PUT /v1/tables/:id/status, the manual override
// for blocking a table or returning it to service.  Marking a table
// available is refused with 409 while a confirmed or arrived
// reservation still claims it.
func (h *Handler) SetTableStatus(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	status := model.TableStatus(body.Status)
	if !model.ValidTableStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	table, err := h.Engine.SetTableStatus(c.Request().Context(), act, tableID, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table": table})
}
