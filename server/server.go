// Package server exposes the pipeline over HTTP for the UI launch mode.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"blogflow/pipeline"
	"blogflow/publisher"
)

// runTimeout bounds one full pipeline run, revision loop included.
const runTimeout = 5 * time.Minute

type Server struct {
	orch   *pipeline.Orchestrator
	store  *runStore
	logger *log.Logger
}

type runStore struct {
	mu   sync.Mutex
	runs map[string]*pipeline.Result
}

func newStore() *runStore {
	return &runStore{runs: make(map[string]*pipeline.Result)}
}

func (s *runStore) set(id string, res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = res
}

func (s *runStore) get(id string) (*pipeline.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.runs[id]
	return res, ok
}

func New(orch *pipeline.Orchestrator, logger *log.Logger) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{orch: orch, store: newStore(), logger: logger}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.handleRunCreate)
	mux.HandleFunc("/api/runs/", s.handleRunByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type runCreateReq struct {
	Topic string `json:"topic"`
	Style string `json:"style,omitempty"`
}

func (s *Server) handleRunCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req runCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	var style *pipeline.StyleGuide
	if req.Style != "" {
		sg, err := pipeline.LoadStyleGuide(req.Style)
		if err != nil {
			http.Error(w, "style guide: "+err.Error(), http.StatusBadRequest)
			return
		}
		style = &sg
	}

	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()
	result, err := s.orch.Run(ctx, req.Topic, style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.store.set(result.RunID, result)
	writeJSON(w, result)
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	result, ok := s.store.get(id)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	switch sub {
	case "":
		writeJSON(w, result)
	case "preview":
		html, err := publisher.RenderHTML(result.Article.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	default:
		http.NotFound(w, r)
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("[http] %s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
