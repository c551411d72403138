// Package executive models the relationship with Number 10: a trust and
// patience ledger, forced-choice interventions, demands with deadlines, and
// the terminal reshuffle. The state machine has three shapes — quiet,
// intervention pending, terminated — and terminated is absorbing.
package executive

import (
	"fmt"

	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/parliament"
)

// Bounds and thresholds for the trust/patience machinery.
const (
	moodBaseline     = 55.0
	approvalBaseline = 42.0

	unemploymentCrisis = 9.0
	debtCrisis         = 100.0
	yieldCrisis        = 5.5
	serviceFloor       = 40.0

	// Terminal condition: trust or patience under the critical floor for
	// sustainTurns consecutive turns.
	criticalFloor = 15.0
	sustainTurns  = 3

	// Support is withdrawn when patience collapses and restored only well
	// above the withdrawal point, so the flag does not flap.
	withdrawBelow = 25.0
	restoreAbove  = 45.0
)

// Demand is an explicit ask from Number 10 with a deadline turn. One of Met
// or Breached is eventually set; never both.
type Demand struct {
	Kind         DemandKind `json:"kind"`
	Target       float64    `json:"target"`
	IssuedTurn   int        `json:"issued_turn"`
	DeadlineTurn int        `json:"deadline_turn"`
	Met          bool       `json:"met"`
	Breached     bool       `json:"breached"`
}

// DemandKind enumerates what Number 10 can demand.
type DemandKind string

const (
	DemandDeficitReduction DemandKind = "deficit_reduction"
	DemandApprovalRecovery DemandKind = "approval_recovery"
)

// Reshuffle is the terminal record. Once created it is never cleared; the
// run is over.
type Reshuffle struct {
	Turn   int    `json:"turn"`
	Reason string `json:"reason"`
}

// Relationship is the full PM-trust state. All scalars are held in [0,100]
// at the point of mutation.
type Relationship struct {
	Trust         float64 `json:"trust"`
	Patience      float64 `json:"patience"`
	ReshuffleRisk float64 `json:"reshuffle_risk"`

	WarningsIssued int `json:"warnings_issued"`
	DemandsIssued  int `json:"demands_issued"`

	Demands          []Demand `json:"demands,omitempty"`
	SupportWithdrawn bool     `json:"support_withdrawn"`

	// At most one intervention is pending at a time.
	Pending *Intervention `json:"pending,omitempty"`

	Reshuffle *Reshuffle `json:"reshuffle,omitempty"`

	// Streak counters backing the terminal check and demand issuance.
	LowStreak          int `json:"low_streak"`
	NonCompliantStreak int `json:"non_compliant_streak"`
}

// NewRelationship returns the start-of-term relationship.
func NewRelationship() Relationship {
	return Relationship{Trust: 75, Patience: 70, ReshuffleRisk: 15}
}

// Terminated reports whether the reshuffle has fired.
func (rel *Relationship) Terminated() bool {
	return rel.Reshuffle != nil
}

// TurnContext is the read-only picture the relationship update consumes.
type TurnContext struct {
	Turn                int
	Sentiment           parliament.SentimentSnapshot
	Econ                economy.Indicators
	Verdict             fiscal.Verdict
	DeficitPct          float64
	DebtRatioPct        float64
	OutstandingBreaches int     // uncorrected manifesto breaches
	ApprovalTrend       float64 // this turn's approval minus last turn's
}

// UpdateTrust moves trust by a weighted sum of backbench-mood deviation,
// approval deviation, crisis penalties, and a service-quality penalty.
// Runs every turn regardless of intervention state.
func (rel *Relationship) UpdateTrust(ctx TurnContext) {
	delta := 0.08*(ctx.Sentiment.OverallMood-moodBaseline) +
		0.06*(ctx.Econ.NationalApproval-approvalBaseline)

	if ctx.Econ.UnemploymentPct > unemploymentCrisis {
		delta -= 1.5
	}
	if ctx.DebtRatioPct > debtCrisis {
		delta -= 1.0
	}
	if ctx.Econ.GiltYieldPct > yieldCrisis {
		delta -= 0.8
	}
	if ctx.Econ.ServiceQuality < serviceFloor {
		delta -= 0.6
	}

	rel.Trust = clamp(rel.Trust+delta, 0, 100)
}

// UpdatePatience moves patience on harsher, more granular tiers than trust.
// Patience is the primary driver of reshuffle risk.
func (rel *Relationship) UpdatePatience(ctx TurnContext) {
	delta := 0.0

	switch mood := ctx.Sentiment.OverallMood; {
	case mood < 30:
		delta -= 4
	case mood < 40:
		delta -= 2.5
	case mood < 50:
		delta -= 1
	}

	switch approval := ctx.Econ.NationalApproval; {
	case approval < 22:
		delta -= 4
	case approval < 30:
		delta -= 2
	case approval < 38:
		delta -= 1
	}

	if n := ctx.OutstandingBreaches; n > 0 {
		breach := float64(n) * 0.8
		if breach > 2.4 {
			breach = 2.4
		}
		delta -= breach
	}

	if ctx.Sentiment.OverallMood >= moodBaseline &&
		ctx.Econ.NationalApproval >= 45 &&
		ctx.Verdict.OverallCompliant {
		delta += 1.5
	}

	rel.Patience = clamp(rel.Patience+delta, 0, 100)

	// Reshuffle risk chases a patience-heavy target rather than jumping.
	target := 100 - (0.7*rel.Patience + 0.3*rel.Trust)
	rel.ReshuffleRisk = clamp(rel.ReshuffleRisk+(target-rel.ReshuffleRisk)*0.3, 0, 100)
}

// UpdateSupport flips the withdrawn flag on patience extremes. Returns -1
// when support was withdrawn this turn, +1 when restored, 0 otherwise.
func (rel *Relationship) UpdateSupport() int {
	if !rel.SupportWithdrawn && rel.Patience < withdrawBelow {
		rel.SupportWithdrawn = true
		return -1
	}
	if rel.SupportWithdrawn && rel.Patience > restoreAbove {
		rel.SupportWithdrawn = false
		return +1
	}
	return 0
}

// CheckTerminal runs the sustained-floor test. Called exactly once per turn;
// once the reshuffle exists the caller short-circuits all further political
// processing.
func (rel *Relationship) CheckTerminal(ctx TurnContext) *Reshuffle {
	if rel.Reshuffle != nil {
		return rel.Reshuffle
	}

	if rel.Trust < criticalFloor || rel.Patience < criticalFloor {
		rel.LowStreak++
	} else {
		rel.LowStreak = 0
	}

	if rel.LowStreak >= sustainTurns {
		reason := "the Prime Minister's trust collapsed"
		if rel.Patience < criticalFloor {
			reason = "Number 10 ran out of patience"
		}
		rel.Reshuffle = &Reshuffle{Turn: ctx.Turn, Reason: reason}
	}
	return rel.Reshuffle
}

// MaybeIssueDemand issues at most one new demand per turn, and never while
// an unresolved demand of the same kind is outstanding.
func (rel *Relationship) MaybeIssueDemand(ctx TurnContext) *Demand {
	if ctx.Verdict.OverallCompliant {
		rel.NonCompliantStreak = 0
	} else {
		rel.NonCompliantStreak++
	}

	if rel.NonCompliantStreak >= 2 && !rel.hasOpenDemand(DemandDeficitReduction) {
		d := Demand{
			Kind:         DemandDeficitReduction,
			Target:       ctx.DeficitPct - 1.0,
			IssuedTurn:   ctx.Turn,
			DeadlineTurn: ctx.Turn + 6,
		}
		rel.Demands = append(rel.Demands, d)
		rel.DemandsIssued++
		return &d
	}

	if ctx.Econ.NationalApproval < 28 && !rel.hasOpenDemand(DemandApprovalRecovery) {
		d := Demand{
			Kind:         DemandApprovalRecovery,
			Target:       35,
			IssuedTurn:   ctx.Turn,
			DeadlineTurn: ctx.Turn + 8,
		}
		rel.Demands = append(rel.Demands, d)
		rel.DemandsIssued++
		return &d
	}
	return nil
}

// CheckDemands settles outstanding demands. A demand is met exactly when its
// metric reaches the target on or after the first check turn (the turn after
// issuance), never on the turn it was issued. A missed deadline breaches the
// demand and costs patience. Returns descriptions of settled demands.
func (rel *Relationship) CheckDemands(ctx TurnContext) []string {
	var settled []string
	for i := range rel.Demands {
		d := &rel.Demands[i]
		if d.Met || d.Breached || ctx.Turn <= d.IssuedTurn {
			continue
		}

		var metric float64
		var achieved bool
		switch d.Kind {
		case DemandDeficitReduction:
			metric = ctx.DeficitPct
			achieved = metric <= d.Target
		case DemandApprovalRecovery:
			metric = ctx.Econ.NationalApproval
			achieved = metric >= d.Target
		}

		switch {
		case achieved:
			d.Met = true
			settled = append(settled, fmt.Sprintf("demand met: %s reached %.1f (target %.1f)", d.Kind, metric, d.Target))
		case ctx.Turn > d.DeadlineTurn:
			d.Breached = true
			rel.Patience = clamp(rel.Patience-10, 0, 100)
			settled = append(settled, fmt.Sprintf("demand breached: %s missed %.1f by the deadline", d.Kind, d.Target))
		}
	}
	return settled
}

func (rel *Relationship) hasOpenDemand(kind DemandKind) bool {
	for _, d := range rel.Demands {
		if d.Kind == kind && !d.Met && !d.Breached {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
