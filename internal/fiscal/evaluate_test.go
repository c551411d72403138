package fiscal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbox-games/chancellor/internal/economy"
)

func testEcon() economy.Indicators {
	return economy.Indicators{GDP: 2000, GrowthPct: 1.5}
}

func TestEvaluate_BalancedBudgetBreach(t *testing.T) {
	regime, ok := ByID(RegimeBalancedBudget)
	require.True(t, ok)

	pos := Position{
		Revenue:         1090,
		CurrentSpending: 1100,
		DebtInterest:    95,
	}
	v := Evaluate(regime, testEcon(), pos)

	assert.InDelta(t, -105, v.Headroom, 1e-9)
	assert.False(t, v.RuleMet)
	assert.False(t, v.OverallCompliant)
	assert.Contains(t, v.Failures, "overall_balance")
}

func TestEvaluate_GoldenRuleExemptsInvestment(t *testing.T) {
	regime, _ := ByID(RegimeGoldenRule)

	pos := Position{
		Revenue:          1000,
		CurrentSpending:  990,
		CapitalSpending:  200, // exempt: must not move headroom
		DebtInterest:     15,
		DebtRatioPct:     90,
		DebtRatioPrevPct: 91,
	}
	v := Evaluate(regime, testEcon(), pos)

	assert.InDelta(t, 1000-990-15+9.7, v.Headroom, 1e-9)
	assert.True(t, v.RuleMet)
	assert.True(t, v.DebtFallingMet)
	assert.True(t, v.OverallCompliant)

	pos.CapitalSpending = 0
	v2 := Evaluate(regime, testEcon(), pos)
	assert.Equal(t, v.Headroom, v2.Headroom)
}

func TestEvaluate_CurrentBalanceTolerance(t *testing.T) {
	regime, _ := ByID(RegimeGoldenRule)
	pos := Position{
		Revenue:          1000,
		CurrentSpending:  1000,
		DebtRatioPct:     90,
		DebtRatioPrevPct: 91,
	}

	// Headroom a hair inside the tolerance still passes.
	pos.DebtInterest = 10.1 // headroom -0.4
	assert.True(t, Evaluate(regime, testEcon(), pos).RuleMet)

	pos.DebtInterest = 10.3 // headroom -0.6
	assert.False(t, Evaluate(regime, testEcon(), pos).RuleMet)
}

func TestEvaluate_DeficitCeilingConvertsToCurrency(t *testing.T) {
	regime, _ := ByID(RegimeDeficitCeiling)
	pos := Position{DeficitPct: 4.5}

	v := Evaluate(regime, testEcon(), pos)
	// (3.0 - 4.5)% of 2000bn GDP: 30bn deep in breach.
	assert.InDelta(t, -30, v.Headroom, 1e-9)
	assert.False(t, v.RuleMet)
	assert.Contains(t, v.Failures, "deficit_ceiling")

	pos.DeficitPct = 2.0
	v = Evaluate(regime, testEcon(), pos)
	assert.InDelta(t, 20, v.Headroom, 1e-9)
	assert.True(t, v.OverallCompliant)
}

func TestEvaluate_NoRuleIsVacuouslyCompliant(t *testing.T) {
	regime, _ := ByID(RegimeNoRule)
	pos := Position{Revenue: 500, CurrentSpending: 2000, DebtInterest: 300, DeficitPct: 12}

	v := Evaluate(regime, testEcon(), pos)
	assert.Zero(t, v.Headroom)
	assert.True(t, v.OverallCompliant)
	assert.Empty(t, v.Failures)
}

func TestEvaluate_SubTestsReportedIndependently(t *testing.T) {
	regime, _ := ByID(RegimeDebtAnchor)
	pos := Position{
		DeficitPct:       2.0, // inside the ceiling
		DebtRatioPct:     70,  // above the 60 target
		DebtRatioPrevPct: 69,  // and rising
	}

	v := Evaluate(regime, testEcon(), pos)
	assert.True(t, v.RuleMet)
	assert.False(t, v.DebtTargetMet)
	assert.False(t, v.DebtFallingMet)
	assert.False(t, v.OverallCompliant)
	assert.ElementsMatch(t, []string{"debt_target", "debt_falling"}, v.Failures)
}

func TestEvaluate_Pure(t *testing.T) {
	regime, _ := ByID(RegimeGoldenRule)
	econ := testEcon()
	pos := Position{Revenue: 1040, CurrentSpending: 980, DebtInterest: 85, DebtRatioPct: 92, DebtRatioPrevPct: 93}

	v1 := Evaluate(regime, econ, pos)
	v2 := Evaluate(regime, econ, pos)
	assert.Equal(t, v1, v2)
}

func TestEvaluate_RegimeSwapChangesHeadroomOnly(t *testing.T) {
	econ := testEcon()
	pos := Position{
		Revenue:         1090,
		CurrentSpending: 1000,
		CapitalSpending: 100,
		DebtInterest:    95,
		DeficitPct:      0.25,
	}

	golden, _ := ByID(RegimeGoldenRule)
	balanced, _ := ByID(RegimeBalancedBudget)
	ceiling, _ := ByID(RegimeDeficitCeiling)

	assert.InDelta(t, 1090-1000-95+9.7, Evaluate(golden, econ, pos).Headroom, 1e-9)
	assert.InDelta(t, 1090-1100-95, Evaluate(balanced, econ, pos).Headroom, 1e-9)
	assert.InDelta(t, (3.0-0.25)/100*2000, Evaluate(ceiling, econ, pos).Headroom, 1e-9)
}

func TestProject_DoesNotMutate(t *testing.T) {
	regime, _ := ByID(RegimeDeficitCeiling)
	econ := testEcon()
	pos := Position{DeficitPct: 2.0}

	verdicts := Project(regime, econ, pos, 6)
	require.Len(t, verdicts, 6)
	assert.Equal(t, Evaluate(regime, econ, pos), verdicts[0])
	// GDP compounds across the projection, so headroom grows.
	assert.Greater(t, verdicts[5].Headroom, verdicts[0].Headroom)
	// Live inputs untouched.
	assert.Equal(t, 2000.0, econ.GDP)
}

func TestParseRegimeID_RoundTrip(t *testing.T) {
	for _, r := range All() {
		id, ok := ParseRegimeID(r.ID.String())
		require.True(t, ok, r.ID.String())
		assert.Equal(t, r.ID, id)
	}
	_, ok := ParseRegimeID("fiscal_anarchy")
	assert.False(t, ok)
}
