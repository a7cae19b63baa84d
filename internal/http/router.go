package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"knowitall/internal/agent"
	"knowitall/internal/handlers"
	"knowitall/internal/manifest"
	"knowitall/internal/vectorstore"
)

// Syncer triggers an immediate reconciliation pass.
type Syncer interface {
	Trigger()
}

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Agent          *agent.Agent
	Syncer         Syncer
	VectorStore    vectorstore.VectorStore
	ManifestStore  *manifest.Store
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	askHandler := handlers.NewAskHandler(deps.Agent)
	syncHandler := handlers.NewSyncHandler(deps.Syncer)
	statusHandler := handlers.NewStatusHandler(deps.VectorStore, deps.ManifestStore, deps.CollectionName)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/sync", syncHandler)
		r.Method(http.MethodGet, "/status", statusHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
