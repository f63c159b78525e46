// Package api serves the finalized header count table over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmikkelson/wikiheaders/internal/output"
	"github.com/jmikkelson/wikiheaders/internal/stats"
)

// Server exposes a read-only view of one run's results.
type Server struct {
	router  chi.Router
	records []stats.HeaderRecord
	log     *slog.Logger
}

// NewServer creates and configures the HTTP server around a finalized
// record set.
func NewServer(records []stats.HeaderRecord, log *slog.Logger) *Server {
	s := &Server{
		records: records,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/headers", s.handleHeaders)
	r.Get("/api/headers.csv", s.handleHeadersCSV)
	r.Get("/report", s.handleReport)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.records); err != nil {
		s.log.Error("encode headers", "error", err)
	}
}

func (s *Server) handleHeadersCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := output.WriteCSV(w, s.records); err != nil {
		s.log.Error("write csv", "error", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	html, err := output.RenderHTML(s.records)
	if err != nil {
		s.log.Error("render report", "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
