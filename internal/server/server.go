// Package server provides the HTTP server for the face control system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Alonbbar6/CvAppGames/internal/app"
	"github.com/Alonbbar6/CvAppGames/internal/server/api"
	"github.com/Alonbbar6/CvAppGames/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	control *ControlHandler
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)

		scoreHandler := api.NewScoreHandler(s.config.Store)
		s.mux.Handle("/api/scores", scoreHandler)
		s.mux.Handle("/api/scores/", scoreHandler)
	}

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/recalibrate", s.handleRecalibrate)

		// Result stream over WebSocket, fed by the app pipeline
		s.control = NewControlHandler()
		s.config.App.AddConsumer(s.control)
		s.mux.Handle("/api/control", s.control)

		// Camera preview
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	a := s.config.App
	baseline, threshold := a.Engine().Baseline()

	response := map[string]interface{}{
		"enabled":    a.IsEnabled(),
		"calibrated": a.Engine().Calibrated(),
		"sessionId":  a.SessionID(),
	}
	if a.Engine().Calibrated() {
		response["baseline"] = baseline
		response["threshold"] = threshold
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleRecalibrate handles POST requests to /api/recalibrate.
func (s *Server) handleRecalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.App.Recalibrate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "recalibrating"})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
