package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kurobon/gitdistance/internal/distance"
	"github.com/kurobon/gitdistance/internal/git"
)

// Options are the defaults applied to queries that do not override them.
type Options struct {
	MaxDepth int
	Strategy distance.Strategy
}

type Server struct {
	Repo    *git.Repository
	Mux     *http.ServeMux
	Logger  *slog.Logger
	Options Options

	metrics *metrics
}

func NewServer(repo *git.Repository, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Strategy == "" {
		opts.Strategy = distance.DefaultStrategy
	}
	s := &Server{
		Repo:    repo,
		Mux:     http.NewServeMux(),
		Logger:  logger,
		Options: opts,
		metrics: newMetrics(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Mux.HandleFunc("/ping", s.handlePing)
	s.Mux.HandleFunc("/api/distance", s.handleDistance)
	s.Mux.HandleFunc("/api/describe", s.handleDescribe)
	s.Mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Mux.ServeHTTP(w, r)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "pong",
		"system":  "gitdistance",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
