// Package api serves the game over HTTP.
// GET endpoints are public (read-only post-turn snapshots).
// POST endpoints require a bearer token and carry the two player operations:
// advance turn and resolve intervention.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/redbox-games/chancellor/internal/engine"
	"github.com/redbox-games/chancellor/internal/executive"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/persistence"
)

// Server serves one running game. Turns are atomic: the mutex serializes
// requests so a turn always computes to completion before the next is
// accepted, and GET handlers only ever observe post-turn state.
type Server struct {
	Game     *engine.Game
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	mu sync.Mutex
}

// Start begins serving the HTTP API. Blocks.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Public read-only endpoints.
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/sentiment", s.handleSentiment)
	mux.HandleFunc("/api/v1/relationship", s.handleRelationship)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/regimes", s.handleRegimes)

	// Player operations (POST, bearer token).
	mux.HandleFunc("/api/v1/turn", s.adminOnly(s.handleTurn))
	mux.HandleFunc("/api/v1/intervention", s.adminOnly(s.handleIntervention))
	mux.HandleFunc("/api/v1/preview", s.adminOnly(s.handlePreview))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "auth", s.AdminKey != "")
	return http.ListenAndServe(addr, mux)
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "player endpoints disabled (no CHANCELLOR_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey && auth != ""
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Game.State)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Game.State.Sentiment)
}

func (s *Server) handleRelationship(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Game.State.Rel)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{
		"trust":    s.Game.State.TrustHistory,
		"approval": s.Game.State.ApprovalHistory,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []engine.Event{})
		return
	}
	events, err := s.DB.RecentEvents(s.Game.State.ID, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleRegimes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, fiscal.All())
}

// handleTurn advances one turn with the submitted policy deltas.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var delta engine.PolicyDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res, err := s.Game.AdvanceTurn(delta)
	if err == nil {
		s.persist(res)
	}
	s.mu.Unlock()

	if err != nil {
		writePreconditionError(w, err)
		return
	}
	writeJSON(w, res)
}

// handleIntervention resolves the pending intervention with comply or defy.
func (s *Server) handleIntervention(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Choice executive.Choice `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.Game.ResolveIntervention(body.Choice)
	if err == nil {
		s.persist(nil)
	}
	s.mu.Unlock()

	if err != nil {
		writePreconditionError(w, err)
		return
	}
	writeJSON(w, map[string]any{"resolved": true})
}

// handlePreview runs a what-if turn without touching the live game.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var delta engine.PolicyDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res, err := s.Game.Preview(delta)
	s.mu.Unlock()

	if err != nil {
		writePreconditionError(w, err)
		return
	}
	writeJSON(w, res)
}

// persist saves the current state and any new events; save failures are
// logged, never fatal to the request.
func (s *Server) persist(res *engine.TurnResult) {
	if s.DB == nil {
		return
	}
	if err := s.DB.SaveGame(s.Game.State); err != nil {
		slog.Error("save failed", "error", err)
	}
	if res != nil {
		if err := s.DB.SaveEvents(s.Game.State.ID, res.Events); err != nil {
			slog.Error("event save failed", "error", err)
		}
	}
}

// writePreconditionError distinguishes "needs a choice" and "game over" from
// plain bad requests, so the UI can tell a pause from the end of the run.
func writePreconditionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrTerminated):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, executive.ErrInterventionPending),
		errors.Is(err, executive.ErrNoPendingIntervention):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
