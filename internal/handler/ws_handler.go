/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.

A freshly upgraded connection carries no identity; the client announces one
with a register_socket event, after which the connection participates in the
private-message relay until it disconnects.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"moodlink/internal/app/relay"
	"moodlink/internal/pkg/errs"
	"moodlink/internal/pkg/limiter"
	"moodlink/internal/pkg/logx"
	"moodlink/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := relay.NewClient(deps.Hub, conn, r.RemoteAddr)

		go client.WritePump()

		logx.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

		client.ReadPump()
	}
}
