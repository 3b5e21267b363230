package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConfirmReservation handles POST /v1/reservations/:id/confirm.  Staff
// acknowledge a pending reservation; the engine refuses when a required
// deposit is still unpaid.
func (h *Handler) ConfirmReservation(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.ConfirmReservation(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// CheckIn handles POST /v1/reservations/:id/checkin.  Front-of-house
// marks the party as arrived; the engine enforces the arrival window
// around the booked start and flips the table to occupied.
func (h *Handler) CheckIn(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CheckIn(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Complete handles POST /v1/reservations/:id/complete.  The visit ends,
// the reservation completes and the table is released.  Repeating the
// call on an already completed reservation returns the same state.
func (h *Handler) Complete(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.Release(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// MarkNoShow handles POST /v1/reservations/:id/no-show.  Staff record a
// party that never arrived; the engine requires the tolerance window to
// have elapsed first.
func (h *Handler) MarkNoShow(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.MarkNoShow(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}
