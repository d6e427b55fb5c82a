package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

const (
	queryParamCount     = "n"
	defaultHistoryCount = 60
)

func (h *handlers) registerHistoryEndpoints(rest *echo.Echo) {
	group := rest.Group("/history")

	group.GET("/", h.getHistory)
	group.GET("/stats/", h.getHistoryStats)
}

// returns the last n snapshots, oldest first
func (h *handlers) getHistory(c echo.Context) error {
	count := defaultHistoryCount
	if param := c.QueryParam(queryParamCount); len(param) > 0 {
		value, err := cast.ToIntE(param)
		if err != nil || value <= 0 {
			return returnBadRequest(c, fmt.Errorf("invalid value for '%s': %s", queryParamCount, param))
		}
		count = value
	}
	return c.JSONPretty(http.StatusOK, h.status.RecentHistory(count), indentationChar)
}

func (h *handlers) getHistoryStats(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.status.HistoryStats(), indentationChar)
}
