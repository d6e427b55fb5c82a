package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *handlers) registerSensorEndpoints(rest *echo.Echo) {
	rest.GET("/sensors/", h.getSensors)
	rest.GET("/diag/", h.getDiagnostics)
}

// returns the most recent snapshot
func (h *handlers) getSensors(c echo.Context) error {
	snapshot, ok := h.status.LatestSnapshot()
	if !ok {
		return c.JSONPretty(http.StatusServiceUnavailable, &Result{
			Name:    "Unavailable",
			Message: "No sensor data available yet",
		}, indentationChar)
	}
	return c.JSONPretty(http.StatusOK, snapshot, indentationChar)
}

func (h *handlers) getDiagnostics(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status.Diagnostics(), indentationChar)
}
