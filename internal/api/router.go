package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/kiranshivaraju/mediaguard/internal/api/middleware"
	"github.com/kiranshivaraju/mediaguard/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	AllowedOrigins []string

	IndexHandler     http.HandlerFunc
	UploadHandler    http.HandlerFunc
	JobStatusHandler http.HandlerFunc
	HealthHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", mw.RequestIDHeader},
			ExposedHeaders: []string{"Content-Disposition", mw.JobIDHeader, mw.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.JobID)

	r.Get("/", orNotImplemented(deps.IndexHandler))
	r.Post("/upload", orNotImplemented(deps.UploadHandler))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", orNotImplemented(deps.HealthHandler))
		r.Post("/analyze", orNotImplemented(deps.UploadHandler))
		r.Get("/jobs/{jobID}", orNotImplemented(deps.JobStatusHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented")
	}
}
