package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/executive"
	"github.com/redbox-games/chancellor/internal/fiscal"
	"github.com/redbox-games/chancellor/internal/parliament"
)

func testEconomy() economy.Indicators {
	return economy.Indicators{
		GDP:              2600,
		GrowthPct:        1.5,
		InflationPct:     2.5,
		UnemploymentPct:  4.3,
		GiltYieldPct:     4.2,
		NationalApproval: 42.5,
		RegionalApproval: [economy.NumRegions]float64{43, 41, 44, 42},
		ServiceQuality:   55,
	}
}

func testPosition() fiscal.Position {
	return fiscal.Position{
		Revenue:           1040,
		CurrentSpending:   980,
		CapitalSpending:   75,
		DebtInterest:      85,
		DeficitPct:        3.8,
		DebtRatioPct:      92,
		DebtRatioPrevPct:  93.5,
		TaxTakePct:        36.5,
		LockedTaxBaseline: 36.5,
		SpendingBaseline:  980,
	}
}

func newTestGame(t *testing.T, seed int64, regime fiscal.RegimeID) *Game {
	t.Helper()
	return NewGame(NewState(seed, regime, testEconomy(), testPosition()), nil)
}

func TestAdvanceTurn_RejectsWhilePending(t *testing.T) {
	g := newTestGame(t, 7, fiscal.RegimeGoldenRule)
	g.State.Rel.Pending = &executive.Intervention{Reason: executive.ReasonEconomicCrisis}

	_, err := g.AdvanceTurn(PolicyDelta{})
	assert.ErrorIs(t, err, executive.ErrInterventionPending)
	assert.Equal(t, 0, g.State.Turn)
}

func TestAdvanceTurn_RejectsAfterReshuffle(t *testing.T) {
	g := newTestGame(t, 7, fiscal.RegimeGoldenRule)
	g.State.Rel.Reshuffle = &executive.Reshuffle{Turn: 1, Reason: "gone"}

	_, err := g.AdvanceTurn(PolicyDelta{})
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestResolveIntervention_NothingPending(t *testing.T) {
	g := newTestGame(t, 7, fiscal.RegimeGoldenRule)
	err := g.ResolveIntervention(executive.ChoiceComply)
	assert.ErrorIs(t, err, executive.ErrNoPendingIntervention)
}

func TestResolveIntervention_AppliesWholeConsequenceSet(t *testing.T) {
	g := newTestGame(t, 7, fiscal.RegimeGoldenRule)
	s := g.State
	s.Rel.Pending = &executive.Intervention{
		ID:     1,
		Reason: executive.ReasonBackbenchRevolt,
		Comply: executive.ConsequenceSet{Trust: +4, Patience: +6, Approval: -1, Mood: +5, ReshuffleRisk: -8},
	}

	trustBefore := s.Rel.Trust
	approvalBefore := s.Econ.NationalApproval
	regionalBefore := s.Econ.RegionalApproval
	moodBefore := s.Sentiment.OverallMood

	require.NoError(t, g.ResolveIntervention(executive.ChoiceComply))

	assert.Nil(t, s.Rel.Pending)
	assert.InDelta(t, trustBefore+4, s.Rel.Trust, 1e-9)
	assert.InDelta(t, approvalBefore-1, s.Econ.NationalApproval, 1e-9)
	for i := range s.Econ.RegionalApproval {
		assert.InDelta(t, regionalBefore[i]-1, s.Econ.RegionalApproval[i], 1e-9)
	}
	// Sentiment is re-aggregated after the uniform mood shift.
	assert.InDelta(t, moodBefore+5, s.Sentiment.OverallMood, 1e-6)
}

func TestAdvanceTurn_Deterministic(t *testing.T) {
	base := NewState(99, fiscal.RegimeDebtAnchor, testEconomy(), testPosition())

	run := func() []byte {
		clone, err := base.Clone()
		require.NoError(t, err)
		g := NewGame(clone, nil)
		deltas := []PolicyDelta{
			{SpendingDelta: +6},
			{TaxDelta: +1.2},
			{},
			{SpendingDelta: -4, CapitalDelta: +2},
			{TaxDelta: -1.2},
			{},
		}
		for _, d := range deltas {
			_, err := g.AdvanceTurn(d)
			require.NoError(t, err)
			if g.State.Rel.Pending != nil {
				require.NoError(t, g.ResolveIntervention(executive.ChoiceComply))
			}
		}
		data, err := json.Marshal(g.State)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, string(run()), string(run()))
}

func TestState_SerializeRoundTrip(t *testing.T) {
	g := newTestGame(t, 21, fiscal.RegimeGoldenRule)
	for i := 0; i < 4; i++ {
		_, err := g.AdvanceTurn(PolicyDelta{SpendingDelta: 1})
		require.NoError(t, err)
		if g.State.Rel.Pending != nil {
			require.NoError(t, g.ResolveIntervention(executive.ChoiceDefy))
		}
	}

	first, err := json.Marshal(g.State)
	require.NoError(t, err)

	var restored State
	require.NoError(t, json.Unmarshal(first, &restored))
	second, err := json.Marshal(&restored)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, g.State.NextID, restored.NextID)
	assert.Len(t, restored.Reps, parliament.PopulationSize)
}

func TestPreview_LeavesLiveStateUntouched(t *testing.T) {
	g := newTestGame(t, 13, fiscal.RegimeBalancedBudget)

	before, err := json.Marshal(g.State)
	require.NoError(t, err)

	previewed, err := g.Preview(PolicyDelta{TaxDelta: +3})
	require.NoError(t, err)

	after, err := json.Marshal(g.State)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	// The same delta applied for real reproduces the previewed turn exactly.
	live, err := g.AdvanceTurn(PolicyDelta{TaxDelta: +3})
	require.NoError(t, err)
	pj, _ := json.Marshal(previewed)
	lj, _ := json.Marshal(live)
	assert.Equal(t, string(pj), string(lj))
}

func TestApplyDelta_BreachAndCorrectiveBudget(t *testing.T) {
	g := newTestGame(t, 5, fiscal.RegimeDeficitCeiling)

	_, err := g.AdvanceTurn(PolicyDelta{TaxDelta: +1})
	require.NoError(t, err)
	require.Len(t, g.State.Breaches, 1)
	assert.False(t, g.State.Breaches[0].Corrected)
	assert.Equal(t, 1, g.State.OutstandingBreaches())
	if g.State.Rel.Pending != nil {
		require.NoError(t, g.ResolveIntervention(executive.ChoiceComply))
	}

	// Bringing taxes back to the locked baseline closes the record.
	_, err = g.AdvanceTurn(PolicyDelta{TaxDelta: -1})
	require.NoError(t, err)
	assert.Equal(t, 0, g.State.OutstandingBreaches())
	require.Len(t, g.State.Breaches, 1) // stays on the record, marked corrected
	assert.True(t, g.State.Breaches[0].Corrected)
}

func TestApplyDelta_RegimeSwitch(t *testing.T) {
	g := newTestGame(t, 5, fiscal.RegimeGoldenRule)

	target := fiscal.RegimeNoRule
	_, err := g.AdvanceTurn(PolicyDelta{SwitchRegime: &target})
	require.NoError(t, err)
	assert.Equal(t, fiscal.RegimeNoRule, g.State.Regime)

	bogus := fiscal.RegimeID(99)
	if g.State.Rel.Pending != nil {
		require.NoError(t, g.ResolveIntervention(executive.ChoiceComply))
	}
	_, err = g.AdvanceTurn(PolicyDelta{SwitchRegime: &bogus})
	require.NoError(t, err)
	assert.Equal(t, fiscal.RegimeNoRule, g.State.Regime)
}

func TestAdvanceTurn_HistoryWindowBounded(t *testing.T) {
	g := newTestGame(t, 31, fiscal.RegimeGoldenRule)

	for i := 0; i < historyWindow+8; i++ {
		_, err := g.AdvanceTurn(PolicyDelta{})
		require.NoError(t, err)
		if g.State.Rel.Pending != nil {
			require.NoError(t, g.ResolveIntervention(executive.ChoiceComply))
		}
		if g.State.Terminated() {
			t.Fatalf("unexpected reshuffle at turn %d", g.State.Turn)
		}
	}

	assert.Len(t, g.State.TrustHistory, historyWindow)
	assert.Len(t, g.State.ApprovalHistory, historyWindow)
	assert.Equal(t, g.State.Rel.Trust, g.State.TrustHistory[historyWindow-1])
}

// craftedPopulation replaces the seeded backbench with a fixed one: a loyal
// bulk plus a vulnerable tail sitting just above the rebellion threshold.
func craftedPopulation() []parliament.Representative {
	pop := make([]parliament.Representative, parliament.PopulationSize)
	for i := range pop {
		r := parliament.Representative{
			ID:                   i + 1,
			Ideology:             0,
			Marginality:          90,
			PriorityWeight:       0.2,
			Loyalty:              62,
			MonthsSinceRebellion: 12,
			Region:               economy.Region(i % economy.NumRegions),
		}
		if i < 10 {
			r.PriorityWeight = 0.1
			r.Loyalty = 31 + float64(i)*0.2
		}
		pop[i] = r
	}
	return pop
}

func TestSustainedTaxRises_SourParty(t *testing.T) {
	g := newTestGame(t, 11, fiscal.RegimeDeficitCeiling)
	s := g.State
	s.Reps = craftedPopulation()
	s.Sentiment = parliament.Aggregate(s.Reps)

	require.Zero(t, s.Sentiment.RebelReady)
	startMood := s.Sentiment.OverallMood
	startTrust := s.Rel.Trust
	require.InDelta(t, 75, startTrust, 1e-9)
	require.InDelta(t, 70, s.Rel.Patience, 1e-9)

	prevMood := startMood
	for turn := 1; turn <= 3; turn++ {
		_, err := g.AdvanceTurn(PolicyDelta{TaxDelta: +2})
		require.NoError(t, err)
		if s.Rel.Pending != nil {
			// Defying a breach intervention leaves party mood untouched.
			require.NoError(t, g.ResolveIntervention(executive.ChoiceDefy))
		}
		assert.Less(t, s.Sentiment.OverallMood, prevMood, "mood must fall on turn %d", turn)
		prevMood = s.Sentiment.OverallMood
	}

	assert.GreaterOrEqual(t, s.Sentiment.RebelReady, 1,
		"sustained unplanned tax rises must push the vulnerable tail over the edge")
	assert.Equal(t, 3, len(s.Breaches))
	assert.Equal(t, 3, s.OutstandingBreaches())
}
