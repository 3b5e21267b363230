package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/engine"
	"github.com/iliyamo/restaurant-table-reservation/internal/timeslot"
)

// Handler exposes the allocation engine over HTTP.  All methods assume
// that JWT authentication and role validation have already been
// performed by middleware where the route requires them; methods may
// still return 401 Unauthorized when the user ID cannot be extracted
// from the context.
type Handler struct {
	Engine *engine.Engine
}

// New constructs a Handler.  The engine must be non-nil.
func New(eng *engine.Engine) *Handler {
	if eng == nil {
		panic("nil engine passed to handler.New")
	}
	return &Handler{Engine: eng}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actor builds the engine actor from the authenticated context.  The
// role claim maps onto the engine's roles; RoleSystem can never be
// produced from a request.
func actor(c echo.Context) (engine.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return engine.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	switch role {
	case "STAFF":
		return engine.Actor{UserID: uid, Role: engine.RoleStaff}, nil
	case "CUSTOMER":
		return engine.Actor{UserID: uid, Role: engine.RoleCustomer}, nil
	}
	return engine.Actor{}, errors.New("invalid role in context")
}

// pathID parses the numeric :id style path parameter named name.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// writeError translates engine sentinels to HTTP responses.  The engine
// knows nothing about status codes; this is the single place where its
// error taxonomy meets the wire.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, timeslot.ErrBadDate), errors.Is(err, timeslot.ErrBadClock),
		errors.Is(err, engine.ErrInvalidPartySize),
		errors.Is(err, engine.ErrOutsideOperatingHours),
		errors.Is(err, engine.ErrOutsideBookingWindow):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, engine.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, engine.ErrNoTableAvailable),
		errors.Is(err, engine.ErrInvalidTransition),
		errors.Is(err, engine.ErrDepositUnpaid),
		errors.Is(err, engine.ErrTableClaimed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrBusy):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "busy, retry"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
