package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Alonbbar6/CvAppGames/internal/store"
)

// ScoreHandler handles HTTP requests for score resources.
type ScoreHandler struct {
	store *store.Store
}

// NewScoreHandler creates a new ScoreHandler with the given store.
func NewScoreHandler(s *store.Store) *ScoreHandler {
	return &ScoreHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
// Expected paths: /api/scores, /api/scores/{id}
func (h *ScoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/scores")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/scores
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/scores/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createScoreRequest struct {
	SessionID string `json:"session_id"`
	Game      string `json:"game"`
	Player    string `json:"player"`
	Points    int    `json:"points"`
}

type scoreResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id,omitempty"`
	Game      string `json:"game"`
	Player    string `json:"player,omitempty"`
	Points    int    `json:"points"`
	CreatedAt string `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
}

// toScoreResponse converts a store.Score to a scoreResponse.
func toScoreResponse(s *store.Score) scoreResponse {
	return scoreResponse{
		ID:        s.ID,
		SessionID: s.SessionID,
		Game:      s.Game,
		Player:    s.Player,
		Points:    s.Points,
		CreatedAt: s.CreatedAt.Format(timeFormat),
	}
}

// list handles GET /api/scores. With a ?game= query it returns the top
// scores for that game; otherwise all scores, newest first.
func (h *ScoreHandler) list(w http.ResponseWriter, r *http.Request) {
	var scores []*store.Score
	var err error

	if game := r.URL.Query().Get("game"); game != "" {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		scores, err = h.store.Scores().ListByGame(game, limit)
	} else {
		scores, err = h.store.Scores().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	response := listScoresResponse{
		Scores: make([]scoreResponse, 0, len(scores)),
	}
	for _, s := range scores {
		response.Scores = append(response.Scores, toScoreResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/scores/{id} and returns a single score.
func (h *ScoreHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	score, err := h.store.Scores().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Score not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(score))
}

// create handles POST /api/scores and records a new score.
func (h *ScoreHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Game == "" {
		writeError(w, http.StatusBadRequest, "game is required")
		return
	}
	if req.Points < 0 {
		writeError(w, http.StatusBadRequest, "points must not be negative")
		return
	}

	// Verify the session link if one was given
	if req.SessionID != "" {
		if _, err := h.store.Sessions().GetByID(req.SessionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to verify session")
			return
		}
	}

	score := &store.Score{
		ID:        uuid.New().String(),
		SessionID: req.SessionID,
		Game:      req.Game,
		Player:    req.Player,
		Points:    req.Points,
	}

	if err := h.store.Scores().Create(score); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create score")
		return
	}

	writeJSON(w, http.StatusCreated, toScoreResponse(score))
}

// delete handles DELETE /api/scores/{id} and removes a score.
func (h *ScoreHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Scores().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Score not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete score")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
