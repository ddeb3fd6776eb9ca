package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	ws "github.com/agentstation/photomap/internal/server/websocket"
)

// HandleEvents upgrades to a WebSocket that receives the user's change
// notifications.
func (h *Handlers) HandleEvents(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote an error response
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	user := userID(c)
	client := ws.NewClient(uuid.NewString(), user, h.wsHub, conn)
	if !h.wsHub.Register(client) {
		_ = conn.Close()
		return nil
	}
	h.wsHub.Broadcast(ws.Message{
		Type:      ws.TypeConnected,
		Timestamp: time.Now().UTC(),
		UserID:    user,
	})

	go client.WritePump()
	go client.ReadPump()
	return nil
}
