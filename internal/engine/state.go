// Package engine owns the game state and sequences the political-fiscal
// systems each turn. One turn is computed to completion before the next is
// accepted; the population and relationship are exclusively the engine's for
// the duration of a turn, and readers only ever see post-turn snapshots.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redbox-games/chancellor/internal/content"
	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/entropy"
	"github.com/redbox-games/chancellor/internal/executive"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/parliament"
)

// TermTurns is the length of a full term: five years of monthly turns.
const TermTurns = 60

// historyWindow bounds the trailing trust/approval trails kept for display.
const historyWindow = 24

// ErrTerminated rejects any turn advance after the reshuffle has fired.
var ErrTerminated = errors.New("game over: the chancellor has been removed from office")

// Breach is one recorded manifesto breach. Corrected breaches stop feeding
// the intervention roll but stay on the record for the loyalty penalty.
type Breach struct {
	Turn        int    `json:"turn"`
	Description string `json:"description"`
	Corrected   bool   `json:"corrected"`
}

// Event is a notable occurrence, identified by the state's monotonic
// counter so replays and saves stay stable.
type Event struct {
	ID          uint64 `json:"id" db:"id"`
	Turn        int    `json:"turn" db:"turn"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`
}

// State is the complete serializable simulation state. It round-trips
// exactly through JSON; there are no live references in it.
type State struct {
	ID   string `json:"id"`
	Seed int64  `json:"seed"`
	Turn int    `json:"turn"`

	Regime fiscal.RegimeID     `json:"regime"`
	Econ   economy.Indicators  `json:"economy"`
	Fiscal fiscal.Position     `json:"fiscal"`

	Reps      []parliament.Representative  `json:"representatives"`
	Sentiment parliament.SentimentSnapshot `json:"sentiment"`
	Rel       executive.Relationship       `json:"relationship"`

	Breaches []Breach `json:"breaches,omitempty"`

	TrustHistory    []float64 `json:"trust_history,omitempty"`
	ApprovalHistory []float64 `json:"approval_history,omitempty"`

	Verdict fiscal.Verdict  `json:"verdict"`
	Recency content.Recency `json:"recency"`

	// Monotonic id counter for events and interventions, threaded through
	// the state so replay stays deterministic.
	NextID uint64 `json:"next_id"`
}

// NewState builds the start-of-term state for a scenario.
func NewState(seed int64, regime fiscal.RegimeID, econ economy.Indicators, pos fiscal.Position) *State {
	src := entropy.NewSource(seed)
	s := &State{
		ID:     uuid.NewString(),
		Seed:   seed,
		Regime: regime,
		Econ:   econ,
		Fiscal: pos,
		Reps:   parliament.SeedPopulation(src),
		Rel:    executive.NewRelationship(),
		NextID: 1,
	}
	s.Econ.Clamp()
	s.Sentiment = parliament.Aggregate(s.Reps)
	if r, ok := fiscal.ByID(regime); ok {
		s.Verdict = fiscal.Evaluate(r, s.Econ, s.Fiscal)
	}
	return s
}

// Terminated reports whether the terminal reshuffle has fired.
func (s *State) Terminated() bool {
	return s.Rel.Terminated()
}

// OutstandingBreaches counts uncorrected manifesto breaches.
func (s *State) OutstandingBreaches() int {
	n := 0
	for _, b := range s.Breaches {
		if !b.Corrected {
			n++
		}
	}
	return n
}

// nextID hands out the next monotonic identifier.
func (s *State) nextID() uint64 {
	id := s.NextID
	s.NextID++
	return id
}

// Clone deep-copies the state through its own serialization, so a preview
// run can never leak mutation back into the live game.
func (s *State) Clone() (*State, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	return &out, nil
}

func pushBounded(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyWindow {
		hist = hist[len(hist)-historyWindow:]
	}
	return hist
}
