/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logger:     Structured request logging (zerolog)
  4. CORS:       Cross-origin requests for frontend
  5. Auth:       Bearer token -> request-scoped actor

ROUTE GROUPS:
  /api/auth/*           Token issuing (dev)
  /api/collaborators/*  Collaborator lifecycle + leave requests
  /api/holidays/*       Approval queue and decisions
  /api/events/*         Event book and notes

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(h.Tokens.Middleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", h.IssueToken)

		// Collaborator routes
		r.Route("/collaborators", func(r chi.Router) {
			r.Get("/", h.ListCollaborators)
			r.Post("/", h.CreateCollaborator)
			r.Get("/{id}", h.GetCollaborator)
			r.Put("/{id}", h.ModifyCollaborator)
			r.Delete("/{id}", h.DeleteCollaborator)
			r.Post("/{id}/fill", h.FillOccasional)
			r.Post("/{id}/promote", h.PromoteOccasional)
			r.Post("/{id}/holidays", h.RequestHoliday)
		})

		// Holiday approval routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/pending", h.ListPendingHolidays)
			r.Post("/{id}/decision", h.DecideHoliday)
		})

		// Event routes
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/{id}/note", h.AddNote)
			r.Put("/{id}/note", h.ModifyNote)
			r.Delete("/{id}/note", h.RemoveNote)
		})
	})

	return r
}

// requestLogger logs one line per request with status and latency.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
