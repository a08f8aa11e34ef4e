package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/roomatch/roomatch-backend/internal/realtime"
	"github.com/roomatch/roomatch-backend/internal/utils"
)

// WSHandler upgrades authenticated clients to a push-only websocket fed by
// the realtime hub. Each socket holds exactly one hub registration, released
// when the socket closes, so navigating away never leaks a subscription.
type WSHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
	// InsecureSkipVerify bypasses origin checks for cross-origin dev
	// setups. Never enable in production.
	InsecureSkipVerify bool
}

// Serve handles GET /ws?token=... The JWT rides in the query string because
// browser WebSocket APIs cannot set an Authorization header.
func (h *WSHandler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
	}
	uid, err := utils.VerifyAccessToken(h.JWTSecret, token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	opts := &websocket.AcceptOptions{}
	if h.InsecureSkipVerify {
		opts.InsecureSkipVerify = true
	}
	conn, err := websocket.Accept(c.Response(), c.Request(), opts)
	if err != nil {
		return nil // Accept already wrote the error response
	}

	// Push-only socket: we never expect data frames from the client, but
	// reads must continue so close/ping/pong control frames are processed.
	// The returned context ends when the connection closes.
	ctx := conn.CloseRead(c.Request().Context())

	client := h.Hub.Register(uid)
	defer h.Hub.Unregister(client)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	go keepAlive(ctx, conn)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-client.Send:
			if !ok {
				return nil
			}
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return nil
			}
		}
	}
}

func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = conn.Ping(pingCtx)
			cancel()
		}
	}
}
