package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Every session route resolves {sessionID} through SessionCtx. Rate limiting
// is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(redisClient, log))
	r.Get("/api/v1/cities", handlers.SearchCities)
	r.Post("/api/v1/sessions", handlers.CreateSession)

	r.Route("/api/v1/sessions/{sessionID}", func(r chi.Router) {
		r.Use(SessionCtx(handlers.sessions))
		r.Get("/", handlers.GetView)
		r.Delete("/", handlers.DeleteSession)
		r.Post("/search", handlers.Search)
		r.Put("/categories", handlers.EditCategories)
		r.Post("/preset", handlers.RequestPreset)
		r.Put("/view", handlers.UpdateView)
		r.Post("/page", handlers.ChangePage)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
