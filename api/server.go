package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds a whole request, comfortably above the generator's
// worst case of walking the full fallback chain.
const requestTimeout = 120 * time.Second

// SetupRouter creates and configures the HTTP router.
func SetupRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Timeout(requestTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest", handler.Ingest)
		r.Post("/chat", handler.Chat)
		r.Post("/clear-session", handler.ClearSession)
		r.Get("/collections", handler.ListCollections)
		r.Delete("/collections", handler.CleanupCollections)
	})

	return r
}
