package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/chatlog/internal/store"
)

// maxBodySize caps uploaded transcripts.
const maxBodySize = 64 << 20

// Server is the chatlog HTTP API server.
type Server struct {
	db      *store.DB
	router  chi.Router
	version string
	started time.Time
	now     func() time.Time
}

// New creates a new Server with the given database and version string.
func New(db *store.DB, version string) *Server {
	s := &Server{
		db:      db,
		version: version,
		started: time.Now(),
		now:     time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestSize(maxBodySize))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/parse", s.handleParse)

		r.Route("/imports", func(r chi.Router) {
			r.Get("/", s.handleListImports)
			r.Post("/", s.handleCreateImport)
			r.Get("/{importID}", s.handleGetImport)
			r.Delete("/{importID}", s.handleDeleteImport)
			r.Get("/{importID}/messages", s.handleListMessages)
			r.Get("/{importID}/dates", s.handleImportDates)
			r.Get("/{importID}/senders", s.handleImportSenders)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
