package executive

import (
	"errors"
	"fmt"

	"github.com/redbox-games/chancellor/internal/entropy"
)

// TriggerReason is the closed enumeration of intervention triggers.
type TriggerReason string

const (
	ReasonBackbenchRevolt  TriggerReason = "backbench_revolt"
	ReasonManifestoBreach  TriggerReason = "manifesto_breach"
	ReasonApprovalCollapse TriggerReason = "approval_collapse"
	ReasonEconomicCrisis   TriggerReason = "economic_crisis"
)

// Trigger thresholds, evaluated in fixed priority order.
const (
	revoltReadyCount   = 30   // rebellion-ready members above this pulls the PM in
	breachRollChance   = 0.30 // per-turn chance while any breach is uncorrected
	collapseApproval   = 30.0
	crisisUnemployment = 9.0
	crisisDebtRatio    = 100.0
)

// ConsequenceSet is one side of the forced choice: a deterministic delta
// applied atomically on resolution.
type ConsequenceSet struct {
	Trust         float64 `json:"trust"`
	Patience      float64 `json:"patience"`
	Approval      float64 `json:"approval"`
	Mood          float64 `json:"mood"` // uniform loyalty delta across the party
	ReshuffleRisk float64 `json:"reshuffle_risk"`
}

// Intervention is a forced binary choice from Number 10. It has no partial
// or cancelled state: it is pending until exactly one of comply/defy is
// chosen, then its consequences apply and it is gone.
type Intervention struct {
	ID         uint64         `json:"id"`
	Reason     TriggerReason  `json:"reason"`
	Anger      float64        `json:"anger"` // 0–100
	Summary    string         `json:"summary"`
	Comply     ConsequenceSet `json:"comply"`
	Defy       ConsequenceSet `json:"defy"`
	RaisedTurn int            `json:"raised_turn"`
}

// Choice selects a side of a pending intervention.
type Choice string

const (
	ChoiceComply Choice = "comply"
	ChoiceDefy   Choice = "defy"
)

// ErrNoPendingIntervention is returned when resolving with nothing pending.
var ErrNoPendingIntervention = errors.New("no intervention pending")

// ErrInterventionPending is returned when a turn advance is attempted while
// the player owes Number 10 an answer.
var ErrInterventionPending = errors.New("intervention pending: resolve it before advancing")

// EvaluateTriggers scans the trigger conditions in priority order and queues
// a new intervention when one holds. Only runs while quiet: a pending
// intervention or a fired reshuffle suppresses all new triggers, so at most
// one intervention ever exists. The id comes from the orchestrator's
// monotonic counter so replays are stable.
func (rel *Relationship) EvaluateTriggers(ctx TurnContext, src *entropy.Source, nextID func() uint64) *Intervention {
	if rel.Pending != nil || rel.Reshuffle != nil {
		return nil
	}

	var iv *Intervention
	switch {
	case ctx.Sentiment.RebelReady > revoltReadyCount:
		iv = buildIntervention(ReasonBackbenchRevolt, ctx)
	case ctx.OutstandingBreaches > 0 && src.Float64() < breachRollChance:
		// Rolls every turn any breach stays uncorrected; a corrective budget
		// clears the breach list and stops the rolls.
		iv = buildIntervention(ReasonManifestoBreach, ctx)
	case ctx.Econ.NationalApproval < collapseApproval && ctx.ApprovalTrend < 0:
		iv = buildIntervention(ReasonApprovalCollapse, ctx)
	case ctx.Econ.UnemploymentPct > crisisUnemployment || ctx.DebtRatioPct > crisisDebtRatio:
		iv = buildIntervention(ReasonEconomicCrisis, ctx)
	}

	if iv != nil {
		iv.ID = nextID()
		iv.RaisedTurn = ctx.Turn
		rel.Pending = iv
	}
	return iv
}

// Resolve applies exactly one side of the pending intervention and clears
// the queue. The trust/patience/risk parts apply here; approval and mood
// deltas are returned for the orchestrator to apply to its own state, so the
// whole resolution lands atomically within one call.
func (rel *Relationship) Resolve(choice Choice) (ConsequenceSet, error) {
	if rel.Pending == nil {
		return ConsequenceSet{}, ErrNoPendingIntervention
	}

	var c ConsequenceSet
	switch choice {
	case ChoiceComply:
		c = rel.Pending.Comply
	case ChoiceDefy:
		c = rel.Pending.Defy
	default:
		return ConsequenceSet{}, fmt.Errorf("invalid choice %q: want comply or defy", choice)
	}

	rel.Trust = clamp(rel.Trust+c.Trust, 0, 100)
	rel.Patience = clamp(rel.Patience+c.Patience, 0, 100)
	rel.ReshuffleRisk = clamp(rel.ReshuffleRisk+c.ReshuffleRisk, 0, 100)
	rel.Pending = nil
	return c, nil
}

// buildIntervention fills the reason-specific payload and both consequence
// sets. Anger scales with how far past the trigger threshold the state is.
func buildIntervention(reason TriggerReason, ctx TurnContext) *Intervention {
	iv := &Intervention{Reason: reason}

	switch reason {
	case ReasonBackbenchRevolt:
		iv.Anger = clamp(40+float64(ctx.Sentiment.RebelReady-revoltReadyCount)*1.5, 0, 100)
		iv.Summary = fmt.Sprintf("%d of your own members are ready to rebel. The Prime Minister wants an immediate concession package.", ctx.Sentiment.RebelReady)
		iv.Comply = ConsequenceSet{Trust: +4, Patience: +6, Approval: -1, Mood: +5, ReshuffleRisk: -8}
		iv.Defy = ConsequenceSet{Trust: -8, Patience: -10, Mood: -3, ReshuffleRisk: +12}

	case ReasonManifestoBreach:
		iv.Anger = clamp(35+float64(ctx.OutstandingBreaches)*10, 0, 100)
		iv.Summary = "The manifesto breach is dominating the morning round. Number 10 wants a public correction."
		iv.Comply = ConsequenceSet{Trust: +5, Patience: +4, Approval: +2, Mood: +3, ReshuffleRisk: -6}
		iv.Defy = ConsequenceSet{Trust: -10, Patience: -8, Approval: -3, ReshuffleRisk: +10}

	case ReasonApprovalCollapse:
		iv.Anger = clamp(45+(collapseApproval-ctx.Econ.NationalApproval)*2, 0, 100)
		iv.Summary = fmt.Sprintf("Approval has sunk to %.0f and is still falling. The Prime Minister demands a relaunch.", ctx.Econ.NationalApproval)
		iv.Comply = ConsequenceSet{Trust: +3, Patience: +5, Approval: +4, ReshuffleRisk: -5}
		iv.Defy = ConsequenceSet{Trust: -7, Patience: -9, Approval: -2, ReshuffleRisk: +9}

	case ReasonEconomicCrisis:
		iv.Anger = 60
		iv.Summary = "The economic numbers have crossed crisis territory. Number 10 wants an emergency response, whatever it costs."
		iv.Comply = ConsequenceSet{Trust: +4, Patience: +5, Approval: -2, Mood: -2, ReshuffleRisk: -6}
		iv.Defy = ConsequenceSet{Trust: -9, Patience: -7, Approval: +1, ReshuffleRisk: +11}
	}
	return iv
}
