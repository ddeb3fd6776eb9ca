package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HandleHealth reports liveness and a few runtime numbers.
func (h *Handlers) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":            "ok",
		"uptime":            time.Since(h.startTime).Round(time.Second).String(),
		"websocket_clients": h.wsHub.ClientCount(),
		"cache_items":       h.cache.ItemCount(),
	})
}
