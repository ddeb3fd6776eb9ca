package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
)

// Event is one change notification pushed by the service.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Subscribe opens the service's event stream with the current session and
// calls fn for every event. It blocks until ctx is done, which returns nil,
// or the connection fails.
func (c *Client) Subscribe(ctx context.Context, fn func(Event)) error {
	httpURL := c.URL(constants.PathEvents)
	u, err := url.Parse(httpURL)
	if err != nil {
		return errors.NewConfigError("events", "invalid url "+httpURL, err)
	}

	header := http.Header{}
	for _, cookie := range c.session.Cookies(u) {
		header.Add("Cookie", cookie.String())
	}

	wsURL := *u
	if wsURL.Scheme == "https" {
		wsURL.Scheme = "wss"
	} else {
		wsURL.Scheme = "ws"
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.http.Timeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			if apiErr := CheckStatus(resp, "Events"); apiErr != nil {
				return apiErr
			}
		}
		return errors.NewNetworkError(http.MethodGet, wsURL.String(), err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	c.logger.Debug().Str("url", wsURL.String()).Msg("event stream connected")
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.NewNetworkError(http.MethodGet, wsURL.String(), err)
		}
		fn(ev)
	}
}
