// Package server exposes one editor session over a JSON HTTP API.
//
// The API mirrors the editor façade: items are added from the catalog,
// patched, duplicated, locked and removed; undo and redo walk the session
// history; layouts are saved to and loaded from the configured layout
// storage. Errors are rendered as {"code": ..., "message": ...} with the
// status from errors.HTTPStatus.
package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/roomeditor/pkg/catalog"
	"github.com/matzehuels/roomeditor/pkg/editor"
	"github.com/matzehuels/roomeditor/pkg/layout"
	"github.com/matzehuels/roomeditor/pkg/observability"
)

// maxBodyBytes bounds request bodies. A full layout snapshot fits easily.
const maxBodyBytes = 4 << 20

// Server serves one editor session.
type Server struct {
	editor  *editor.Store
	catalog *catalog.Catalog
	layouts *layout.Manager
	logger  *log.Logger
	hooks   observability.HTTPHooks
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHooks overrides the globally registered HTTP hooks.
func WithHooks(h observability.HTTPHooks) Option {
	return func(s *Server) { s.hooks = h }
}

// WithLayouts enables the /layouts endpoints.
func WithLayouts(m *layout.Manager) Option {
	return func(s *Server) { s.layouts = m }
}

// New creates a server for ed. A nil catalog uses the built-in one.
func New(ed *editor.Store, cat *catalog.Catalog, opts ...Option) *Server {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Server{
		editor:  ed,
		catalog: cat,
		logger:  log.Default(),
		hooks:   observability.HTTP(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/version", s.handleVersion)
	r.Get("/state", s.handleState)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/plan", s.handlePlan)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Delete("/", s.handleClearItems)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetItem)
			r.Patch("/", s.handlePatchItem)
			r.Delete("/", s.handleDeleteItem)
			r.Post("/duplicate", s.handleDuplicateItem)
			r.Post("/lock", s.handleLockItem)
			r.Post("/unlock", s.handleUnlockItem)
			r.Post("/select", s.handleSelectItem)
			r.Post("/rotate", s.handleRotateItem)
		})
	})
	r.Delete("/selection", s.handleClearSelection)

	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Put("/mode", s.handleSetMode)
	r.Put("/tool", s.handleSetTool)
	r.Put("/room", s.handleSetRoom)
	r.Put("/settings/grid", s.handleSetGrid)
	r.Put("/settings/rotation-snap", s.handleSetRotationSnap)
	r.Put("/settings/snap-strength", s.handleSetSnapStrength)
	r.Put("/settings/auto-lock", s.handleSetAutoLock)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.handleListLayouts)
		r.Post("/", s.handleSaveLayout)
		r.Get("/{id}", s.handleGetLayout)
		r.Delete("/{id}", s.handleDeleteLayout)
		r.Post("/{id}/load", s.handleLoadLayout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed on " + r.URL.Path})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

var _ http.Handler = (*Server)(nil)
