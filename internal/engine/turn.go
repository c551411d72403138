package engine

import (
	"fmt"
	"log/slog"

	"github.com/redbox-games/chancellor/internal/content"
	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/entropy"
	"github.com/redbox-games/chancellor/internal/executive"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/parliament"
)

// PolicyDelta is the player's budget submission for a turn. Out-of-range
// results are clamped at the boundary, never propagated.
type PolicyDelta struct {
	SpendingDelta float64          `json:"spending_delta"` // current spending, billions
	CapitalDelta  float64          `json:"capital_delta"`  // capital spending, billions
	TaxDelta      float64          `json:"tax_delta"`      // tax take, pp of GDP
	SwitchRegime  *fiscal.RegimeID `json:"switch_regime,omitempty"`
}

// TurnResult is the plain-data output of one turn advance.
type TurnResult struct {
	Turn         int                          `json:"turn"`
	Verdict      fiscal.Verdict               `json:"verdict"`
	Sentiment    parliament.SentimentSnapshot `json:"sentiment"`
	Message      *executive.Message           `json:"message,omitempty"`
	Intervention *executive.Intervention      `json:"intervention,omitempty"`
	Headline     *content.Headline            `json:"headline,omitempty"`
	Quote        *content.Quote               `json:"quote,omitempty"`
	Events       []Event                      `json:"events,omitempty"`
	Terminal     bool                         `json:"terminal"`
}

// Game wires a state to its collaborators. The state is exclusively owned by
// the game for the duration of a turn.
type Game struct {
	State   *State
	Noise   *economy.Noise
	Content *content.Table
}

// NewGame wraps a state with its noise fields and content table.
func NewGame(state *State, table *content.Table) *Game {
	if table == nil {
		table = content.Default()
	}
	return &Game{
		State:   state,
		Noise:   economy.NewNoise(state.Seed),
		Content: table,
	}
}

// AdvanceTurn computes one full turn: apply the budget, drift the economy,
// evaluate the fiscal rule, update every representative, aggregate
// sentiment, update the executive relationship, and check the terminal
// condition. Deterministic given identical state and seed; rejected while
// an intervention is pending or after the reshuffle.
func (g *Game) AdvanceTurn(delta PolicyDelta) (*TurnResult, error) {
	s := g.State
	if s.Terminated() {
		return nil, ErrTerminated
	}
	if s.Rel.Pending != nil {
		return nil, executive.ErrInterventionPending
	}

	s.Turn++
	// Per-turn source derived from the game seed and turn number, so
	// replaying a turn from the same state reproduces every draw.
	src := entropy.NewSource(s.Seed ^ int64(s.Turn)*0x9E3779B9)

	res := &TurnResult{Turn: s.Turn}
	emit := func(category, format string, args ...any) {
		res.Events = append(res.Events, Event{
			ID:          s.nextID(),
			Turn:        s.Turn,
			Category:    category,
			Description: fmt.Sprintf(format, args...),
		})
	}

	// 1. Player budget, clamped at the boundary.
	g.applyDelta(delta, emit)
	regime, ok := fiscal.ByID(s.Regime)
	if !ok {
		return nil, fmt.Errorf("invalid regime id %d", s.Regime)
	}

	// 2. Background macro drift, then the derived fiscal ratios.
	prevApproval := s.Econ.NationalApproval
	s.Econ = economy.Step(s.Econ, economy.StepInputs{
		SpendingDeviation: s.Fiscal.SpendingDeviation(),
		TaxRiseAboveLock:  s.Fiscal.TaxRiseAboveLock(),
		Compliant:         s.Verdict.OverallCompliant,
		YieldOffset:       regime.YieldOffset,
	}, g.Noise, s.Turn)
	g.rollFiscalPosition()

	// 3. Fiscal rule evaluation.
	s.Verdict = fiscal.Evaluate(regime, s.Econ, s.Fiscal)
	res.Verdict = s.Verdict
	if !s.Verdict.OverallCompliant {
		emit("fiscal", "fiscal framework breached: %v (headroom %.1fbn)", s.Verdict.Failures, s.Verdict.Headroom)
	}

	// 4. Loyalty pass over the whole population.
	parliament.UpdatePopulation(s.Reps, parliament.TurnInputs{
		SpendingDeviation: s.Fiscal.SpendingDeviation(),
		TaxRiseAboveLock:  s.Fiscal.TaxRiseAboveLock(),
		RegionalApproval:  s.Econ.RegionalApproval,
		BreachCount:       len(s.Breaches),
		DriftTarget:       regime.BackbenchDriftTarget,
	})

	// 5. Sentiment aggregation.
	s.Sentiment = parliament.Aggregate(s.Reps)
	res.Sentiment = s.Sentiment
	if s.Sentiment.Risk == parliament.RiskHigh || s.Sentiment.Risk == parliament.RiskCritical {
		emit("party", "rebellion risk %s: %d members ready to rebel", s.Sentiment.Risk, s.Sentiment.RebelReady)
	}

	// 6. Executive relationship: trust and patience always move; triggers
	// and demands only while quiet.
	ctx := executive.TurnContext{
		Turn:                s.Turn,
		Sentiment:           s.Sentiment,
		Econ:                s.Econ,
		Verdict:             s.Verdict,
		DeficitPct:          s.Fiscal.DeficitPct,
		DebtRatioPct:        s.Fiscal.DebtRatioPct,
		OutstandingBreaches: s.OutstandingBreaches(),
		ApprovalTrend:       s.Econ.NationalApproval - prevApproval,
	}
	s.Rel.UpdateTrust(ctx)
	s.Rel.UpdatePatience(ctx)
	supportChange := s.Rel.UpdateSupport()
	for _, d := range s.Rel.CheckDemands(ctx) {
		emit("executive", "%s", d)
	}
	newDemand := s.Rel.MaybeIssueDemand(ctx)
	if newDemand != nil {
		emit("executive", "Number 10 issues a demand: %s to %.1f by turn %d", newDemand.Kind, newDemand.Target, newDemand.DeadlineTurn)
	}
	if iv := s.Rel.EvaluateTriggers(ctx, src, s.nextID); iv != nil {
		res.Intervention = iv
		emit("executive", "the Prime Minister intervenes: %s", iv.Reason)
	}

	// 7. Terminal check, exactly once per turn. Once fired, nothing
	// political runs again.
	if r := s.Rel.CheckTerminal(ctx); r != nil && r.Turn == s.Turn {
		emit("executive", "reshuffle: %s", r.Reason)
	}
	res.Terminal = s.Terminated()

	// 8. One communication from Number 10, then the content boundary.
	res.Message = s.Rel.SelectMessage(executive.MessageFacts{
		Turn:          s.Turn,
		SupportChange: supportChange,
		NewDemand:     newDemand,
		Compliant:     s.Verdict.OverallCompliant,
		Approval:      s.Econ.NationalApproval,
		Mood:          s.Sentiment.OverallMood,
		Headroom:      s.Verdict.Headroom,
	})

	facts := map[string]float64{
		"growth":       s.Econ.GrowthPct,
		"inflation":    s.Econ.InflationPct,
		"unemployment": s.Econ.UnemploymentPct,
		"approval":     s.Econ.NationalApproval,
		"deficit":      s.Fiscal.DeficitPct,
		"debt":         s.Fiscal.DebtRatioPct,
		"headroom":     s.Verdict.Headroom,
		"mood":         s.Sentiment.OverallMood,
	}
	res.Headline = g.Content.PickHeadline(facts, &s.Recency, src)
	res.Quote = g.Content.PickQuote(facts, &s.Recency, src)

	s.TrustHistory = pushBounded(s.TrustHistory, s.Rel.Trust)
	s.ApprovalHistory = pushBounded(s.ApprovalHistory, s.Econ.NationalApproval)

	slog.Info("turn complete",
		"turn", s.Turn,
		"headroom", fmt.Sprintf("%.1f", s.Verdict.Headroom),
		"compliant", s.Verdict.OverallCompliant,
		"mood", fmt.Sprintf("%.1f", s.Sentiment.OverallMood),
		"rebel_ready", s.Sentiment.RebelReady,
		"trust", fmt.Sprintf("%.1f", s.Rel.Trust),
		"patience", fmt.Sprintf("%.1f", s.Rel.Patience),
		"terminal", res.Terminal,
	)
	return res, nil
}

// ResolveIntervention applies exactly one side of the pending intervention.
// Trust, patience and risk land inside the relationship; approval and party
// mood land here, so the whole consequence set applies atomically before the
// call returns.
func (g *Game) ResolveIntervention(choice executive.Choice) error {
	s := g.State
	if s.Terminated() {
		return ErrTerminated
	}

	pending := s.Rel.Pending
	c, err := s.Rel.Resolve(choice)
	if err != nil {
		return err
	}

	s.Econ.NationalApproval += c.Approval
	for i := range s.Econ.RegionalApproval {
		s.Econ.RegionalApproval[i] += c.Approval
	}
	s.Econ.Clamp()
	parliament.ApplyMoodDelta(s.Reps, c.Mood)
	s.Sentiment = parliament.Aggregate(s.Reps)

	slog.Info("intervention resolved",
		"reason", pending.Reason,
		"choice", choice,
		"trust", fmt.Sprintf("%.1f", s.Rel.Trust),
		"patience", fmt.Sprintf("%.1f", s.Rel.Patience),
	)
	return nil
}

// Preview runs a what-if turn on a deep copy of the state and returns the
// result without touching the live game.
func (g *Game) Preview(delta PolicyDelta) (*TurnResult, error) {
	clone, err := g.State.Clone()
	if err != nil {
		return nil, err
	}
	shadow := &Game{State: clone, Noise: g.Noise, Content: g.Content}
	return shadow.AdvanceTurn(delta)
}

// applyDelta clamps and applies the player's budget, recording a manifesto
// breach when taxes move above the locked baseline and clearing the breach
// record on a corrective budget.
func (g *Game) applyDelta(delta PolicyDelta, emit func(category, format string, args ...any)) {
	s := g.State

	s.Fiscal.CurrentSpending += delta.SpendingDelta
	if s.Fiscal.CurrentSpending < 0 {
		s.Fiscal.CurrentSpending = 0
	}
	s.Fiscal.CapitalSpending += delta.CapitalDelta
	if s.Fiscal.CapitalSpending < 0 {
		s.Fiscal.CapitalSpending = 0
	}

	prevTax := s.Fiscal.TaxTakePct
	s.Fiscal.TaxTakePct += delta.TaxDelta
	if s.Fiscal.TaxTakePct < 0 {
		s.Fiscal.TaxTakePct = 0
	}
	if s.Fiscal.TaxTakePct > 60 {
		s.Fiscal.TaxTakePct = 60
	}

	// Revenue tracks the tax change immediately.
	s.Fiscal.Revenue += (s.Fiscal.TaxTakePct - prevTax) / 100 * s.Econ.GDP

	switch {
	case delta.TaxDelta > 0 && s.Fiscal.TaxTakePct > s.Fiscal.LockedTaxBaseline:
		s.Breaches = append(s.Breaches, Breach{
			Turn:        s.Turn,
			Description: "unplanned tax rise above the locked baseline",
		})
		emit("fiscal", "manifesto breach: taxes raised %.1fpp above the locked baseline", s.Fiscal.TaxRiseAboveLock())
	case s.Fiscal.TaxTakePct <= s.Fiscal.LockedTaxBaseline:
		// Corrective budget: outstanding breaches stop re-triggering.
		for i := range s.Breaches {
			if !s.Breaches[i].Corrected {
				s.Breaches[i].Corrected = true
				emit("fiscal", "corrective budget: the breach from turn %d is closed", s.Breaches[i].Turn)
			}
		}
	}

	if delta.SwitchRegime != nil {
		if _, ok := fiscal.ByID(*delta.SwitchRegime); ok && *delta.SwitchRegime != s.Regime {
			emit("fiscal", "fiscal framework switches from %s to %s", s.Regime, *delta.SwitchRegime)
			s.Regime = *delta.SwitchRegime
		}
	}
}

// rollFiscalPosition advances the derived ratios one month: revenue rides
// nominal GDP, debt interest reprices off the gilt yield, the deficit falls
// out of the flows, and the debt ratio compounds. The year-ago debt ratio
// refreshes on year boundaries for the falling-debt sub-test.
func (g *Game) rollFiscalPosition() {
	s := g.State
	monthlyGrowth := s.Econ.GrowthPct / 100 / 12

	s.Fiscal.Revenue *= 1 + monthlyGrowth
	s.Fiscal.DebtInterest = s.Fiscal.DebtRatioPct / 100 * s.Econ.GDP * s.Econ.GiltYieldPct / 100

	totalSpend := s.Fiscal.CurrentSpending + s.Fiscal.CapitalSpending + s.Fiscal.DebtInterest
	s.Fiscal.DeficitPct = (totalSpend - s.Fiscal.Revenue) / s.Econ.GDP * 100

	if s.Turn%12 == 1 {
		s.Fiscal.DebtRatioPrevPct = s.Fiscal.DebtRatioPct
	}
	s.Fiscal.DebtRatioPct += s.Fiscal.DeficitPct/12 - s.Fiscal.DebtRatioPct*monthlyGrowth
	if s.Fiscal.DebtRatioPct < 0 {
		s.Fiscal.DebtRatioPct = 0
	}
}
