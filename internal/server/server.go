// Package server implements the board's JSON HTTP API on top of SQLite.
//
// Routes (all JSON; failures are {"error": "..."}):
//
//	GET    /api/projects
//	GET    /api/projects/{id}
//	POST   /api/projects/upload      multipart field "file" (markdown)
//	DELETE /api/projects/{id}
//	GET    /api/projects/{id}/tasks
//	PUT    /api/tasks/{id}           partial task JSON
//	DELETE /api/tasks/{id}
//	GET    /health
//	GET    /metrics
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxUploadSize bounds the multipart body of an upload.
const maxUploadSize = 10 << 20

// Options configures a Server.
type Options struct {
	// RequestLogging enables chi's request logger.
	RequestLogging bool
}

// Server serves the board API.
type Server struct {
	store   *Store
	router  chi.Router
	metrics *metrics
}

// New returns a Server backed by store.
func New(store *Store, opts Options) *Server {
	s := &Server{
		store:   store,
		router:  chi.NewRouter(),
		metrics: newMetrics(),
	}

	r := s.router
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", s.listProjects)
		r.Post("/projects/upload", s.uploadProject)
		r.Get("/projects/{id}", s.getProject)
		r.Delete("/projects/{id}", s.deleteProject)
		r.Get("/projects/{id}/tasks", s.listProjectTasks)

		r.Put("/tasks/{id}", s.updateTask)
		r.Delete("/tasks/{id}", s.deleteTask)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
