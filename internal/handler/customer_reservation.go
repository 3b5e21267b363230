package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/engine"
)

// CreateReservation handles POST /v1/restaurants/:id/reservations.  The
// body carries date, time, party_size and the optional occasion and
// special_request notes.  Table selection, conflict checking and the
// reservation insert run atomically in the engine; when the slot is
// peak-priced the response additionally carries the deposit_ref the
// payment collaborator must echo back.  Returns 201 on success and 409
// when no table fits the requested window.
func (h *Handler) CreateReservation(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var body struct {
		Date           string  `json:"date"`
		Time           string  `json:"time"`
		PartySize      int     `json:"party_size"`
		Occasion       *string `json:"occasion"`
		SpecialRequest *string `json:"special_request"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Date == "" || body.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time are required"})
	}
	result, err := h.Engine.CreateReservation(c.Request().Context(), act, engine.CreateParams{
		RestaurantID:   restaurantID,
		Date:           body.Date,
		Time:           body.Time,
		PartySize:      body.PartySize,
		Occasion:       body.Occasion,
		SpecialRequest: body.SpecialRequest,
	})
	if err != nil {
		return writeError(c, err)
	}
	resp := echo.Map{"reservation": result.Reservation}
	if result.DepositRef != "" {
		resp["deposit_ref"] = result.DepositRef
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user, newest first.  When no
// reservations exist it returns an empty array.
func (h *Handler) ListReservations(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Engine.ListReservations(c.Request().Context(), act)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id.  Customers only see
// their own reservations (403 otherwise); staff may inspect any.
func (h *Handler) GetReservation(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.GetReservation(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// CancelReservation handles POST /v1/reservations/:id/cancel.  The
// engine enforces ownership for customers and the lifecycle rules for
// everyone: only pending and confirmed reservations can be withdrawn.
// The freed table is offered to the waitlist in the same transaction.
func (h *Handler) CancelReservation(c echo.Context) error {
	act, err := actor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Engine.CancelReservation(c.Request().Context(), act, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}
