package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger *log.Logger
	runs   application.RunQueryService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger *log.Logger
	Runs   application.RunQueryService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger: cfg.Logger,
		runs:   cfg.Runs,
	}
}

// Register mounts all public routes onto the router. When authMiddleware is
// nil the run endpoints are open and /auth/verify is not mounted.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
			r.Get("/auth/verify", h.authVerifyHandler())
		}
		r.Get("/runs", h.runListHandler())
		r.Get("/runs/{id}", h.runDetailHandler())
		r.Get("/runs/{id}/rows", h.runRowsHandler())
		r.Get("/runs/{id}/aggregates", h.runAggregatesHandler())
	})
}
