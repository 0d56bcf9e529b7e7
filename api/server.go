/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboard frontends

ROUTE GROUPS:
  /api/datasets/*     Dataset upload and management
  /api/analysis/*     Reconciliation, metrics, and insights

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Dataset routes
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.GetDatasets)
			r.Delete("/", h.ClearDatasets)
			r.Post("/sample", h.LoadSampleData)
			r.Post("/{kind}", h.UploadDataset)
		})

		// Analysis routes
		r.Route("/analysis", func(r chi.Router) {
			r.Get("/", h.GetAnalysis)
			r.Get("/records", h.GetRecords)
			r.Get("/metrics", h.GetMetrics)
			r.Get("/findings", h.GetFindings)
			r.Get("/rankings", h.GetRankings)
			r.Get("/classifications", h.GetClassifications)
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/summary", h.GetSummary)
		})
	})

	return r
}
