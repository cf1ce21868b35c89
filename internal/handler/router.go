/*
Package handler provides the HTTP handlers and routing setup for the moodlink server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (REST and
WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"moodlink/internal/pkg/limiter"
	"moodlink/internal/pkg/logx"
	"moodlink/internal/pkg/resp"
)

const (
	SubmitRate   = 1.0
	SubmitBurst  = 5
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and
// per-route middleware.
func Router(deps *AppDeps) http.Handler {
	submitLimiter := limiter.NewIPRateLimiter(rate.Limit(SubmitRate), SubmitBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		// Any origin may connect; the service runs with an open CORS posture.
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	// CORS defaults to any origin; ALLOWED_ORIGINS narrows it when set.
	corsAllowedOrigins := []string{"*"}
	if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":       "ok",
			"service":      "moodlink",
			"online_users": deps.Hub.Registry().OnlineUsers(),
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/user", func(user chi.Router) {
			user.Post("/update", HandleUpdateUser(deps))
			user.Post("/avatar/presign", HandlePresignAvatarURL(deps))
		})

		api.Route("/mood", func(mood chi.Router) {
			mood.With(submitLimiter.Middleware).Post("/submit", HandleSubmitMood(deps))
			mood.Get("/matches", HandleGetMatches(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
