package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConfirmDeposit handles POST /v1/payments/confirm, the callback the
// external payment collaborator invokes once a deposit charge clears.
// The body carries the opaque deposit_ref issued at booking time; on
// success the matching pending reservation records its payment and is
// confirmed.  Unknown, expired or exhausted references all answer 404 so
// the endpoint leaks nothing about live reservations.
func (h *Handler) ConfirmDeposit(c echo.Context) error {
	var body struct {
		DepositRef string `json:"deposit_ref"`
	}
	if err := c.Bind(&body); err != nil || body.DepositRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "deposit_ref is required"})
	}
	res, err := h.Engine.ConfirmDeposit(c.Request().Context(), body.DepositRef)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}
