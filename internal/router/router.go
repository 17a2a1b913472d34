package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"voxbridge/internal/handlers"
	"voxbridge/internal/middleware"
	"voxbridge/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	skillHandler *handlers.SkillHandler,
	consoleHandler *handlers.ConsoleHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS([]string{frontendURL}))

	// Login rate limiter (10 req/min per IP)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Skill Webhook (public, verified in the handler) ────
	r.Post("/skill", skillHandler.Webhook)

	r.Route("/api/v1/console", func(r chi.Router) {

		// ──── Login (public, rate limited) ────
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/login", consoleHandler.Login)
		})

		// ──── Console API (token required) ────
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/simulate", consoleHandler.Simulate)
			r.Get("/sessions", consoleHandler.Sessions)
			r.Delete("/sessions/{key}", consoleHandler.DeleteSession)
			r.Get("/transcripts", consoleHandler.Transcripts)
		})

		// ──── Live Feed (token via query param) ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
