package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes with a bare 200 "ok".  It deliberately
// touches nothing downstream: a wedged database must not make the
// process look dead to the orchestrator.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
