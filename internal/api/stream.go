package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (h *handlers) registerStreamEndpoint(rest *echo.Echo) {
	rest.GET("/stream/", h.streamSnapshots)
}

// streams the latest snapshot as server-sent events until the client disconnects
func (h *handlers) streamSnapshots(c echo.Context) error {
	response := c.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snapshot, ok := h.status.LatestSnapshot()
			if !ok {
				continue
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				return err
			}
			if _, err = fmt.Fprintf(response, "data: %s\n\n", data); err != nil {
				return nil
			}
			response.Flush()
		}
	}
}
