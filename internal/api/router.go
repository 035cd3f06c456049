package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a chi router with all endpoints. cronSecret guards
// the dispatch and logs endpoints.
func NewRouter(handler *Handler, cronSecret string) http.Handler {
	r := chi.NewRouter()

	// middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// basic cors
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// health check
	r.Get("/health", handler.Health)

	// api v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// subscriber lifecycle
		r.Post("/subscribe", handler.Subscribe)
		r.Get("/verify", handler.Verify)
		r.Get("/unsubscribe", handler.Unsubscribe)
		r.Post("/unsubscribe", handler.Unsubscribe)

		// trigger and history, shared-secret protected
		r.Group(func(r chi.Router) {
			r.Use(bearerAuth(cronSecret))
			r.Get("/dispatch", handler.Dispatch)
			r.Post("/dispatch", handler.Dispatch)
			r.Get("/logs", handler.Logs)
		})
	})

	return r
}
