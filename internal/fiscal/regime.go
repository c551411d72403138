// Package fiscal defines the closed set of fiscal frameworks and the pure
// rule evaluator that scores the government's position against the active one.
package fiscal

// RegimeID identifies one of the seven fiscal frameworks. Exactly one regime
// is active per game; switching is a rare player action handled upstream.
type RegimeID uint8

const (
	RegimeGoldenRule     RegimeID = iota // current budget balance, investment exempt
	RegimeBalancedBudget                 // overall balance including capital
	RegimeDeficitCeiling                 // deficit capped as % of GDP
	RegimeDebtAnchor                     // deficit ceiling plus debt target
	RegimeFallingDebt                    // debt ratio must fall year on year
	RegimeInvestmentRule                 // current balance plus loose debt target
	RegimeNoRule                         // no constraint
)

// NumRegimes is the size of the closed regime set.
const NumRegimes = 7

// Regime is an immutable framework definition. Optional thresholds use
// pointers so "no ceiling" is distinguishable from a zero ceiling.
type Regime struct {
	ID                     RegimeID `json:"id"`
	Name                   string   `json:"name"`
	RequiresCurrentBalance bool     `json:"requires_current_balance"`
	RequiresOverallBalance bool     `json:"requires_overall_balance"`
	DeficitCeilingPct      *float64 `json:"deficit_ceiling_pct,omitempty"`
	DebtTargetPct          *float64 `json:"debt_target_pct,omitempty"`
	DebtMustFall           bool     `json:"debt_must_fall"`
	InvestmentExempt       bool     `json:"investment_exempt"`
	HorizonYears           int      `json:"horizon_years"`

	// Market and political reaction coefficients.
	YieldOffset          float64 `json:"yield_offset"`           // pp on gilt yields
	CurrencyOffset       float64 `json:"currency_offset"`        // % on sterling
	BackbenchDriftTarget float64 `json:"backbench_drift_target"` // loyalty drift pull
}

func pct(v float64) *float64 { return &v }

// regimes is the full catalogue, indexed by RegimeID.
var regimes = [NumRegimes]Regime{
	RegimeGoldenRule: {
		ID:                     RegimeGoldenRule,
		Name:                   "Golden Rule",
		RequiresCurrentBalance: true,
		InvestmentExempt:       true,
		DebtMustFall:           true,
		HorizonYears:           5,
		YieldOffset:            -0.10,
		CurrencyOffset:         0.5,
		BackbenchDriftTarget:   2,
	},
	RegimeBalancedBudget: {
		ID:                     RegimeBalancedBudget,
		Name:                   "Balanced Budget",
		RequiresOverallBalance: true,
		HorizonYears:           3,
		YieldOffset:            -0.25,
		CurrencyOffset:         1.0,
		BackbenchDriftTarget:   -3,
	},
	RegimeDeficitCeiling: {
		ID:                RegimeDeficitCeiling,
		Name:              "Deficit Ceiling",
		DeficitCeilingPct: pct(3.0),
		HorizonYears:      3,
		YieldOffset:       -0.05,
		CurrencyOffset:    0.2,
	},
	RegimeDebtAnchor: {
		ID:                RegimeDebtAnchor,
		Name:              "Debt Anchor",
		DeficitCeilingPct: pct(3.0),
		DebtTargetPct:     pct(60.0),
		DebtMustFall:      true,
		HorizonYears:      5,
		YieldOffset:       -0.15,
		CurrencyOffset:    0.8,
		BackbenchDriftTarget: -1,
	},
	RegimeFallingDebt: {
		ID:           RegimeFallingDebt,
		Name:         "Falling Debt",
		DebtMustFall: true,
		HorizonYears: 5,
		YieldOffset:  0.05,
	},
	RegimeInvestmentRule: {
		ID:                     RegimeInvestmentRule,
		Name:                   "Investment Rule",
		RequiresCurrentBalance: true,
		InvestmentExempt:       true,
		DebtTargetPct:          pct(75.0),
		HorizonYears:           7,
		YieldOffset:            0.15,
		CurrencyOffset:         -0.5,
		BackbenchDriftTarget:   3,
	},
	RegimeNoRule: {
		ID:                   RegimeNoRule,
		Name:                 "No Fiscal Rule",
		HorizonYears:         0,
		YieldOffset:          0.60,
		CurrencyOffset:       -2.0,
		BackbenchDriftTarget: 1,
	},
}

// ByID returns the regime definition for an id, and whether the id is valid.
func ByID(id RegimeID) (Regime, bool) {
	if int(id) >= NumRegimes {
		return Regime{}, false
	}
	return regimes[id], true
}

// All returns the full regime catalogue.
func All() []Regime {
	out := make([]Regime, NumRegimes)
	copy(out, regimes[:])
	return out
}

// ParseRegimeID maps a config string to a RegimeID.
func ParseRegimeID(s string) (RegimeID, bool) {
	switch s {
	case "golden_rule":
		return RegimeGoldenRule, true
	case "balanced_budget":
		return RegimeBalancedBudget, true
	case "deficit_ceiling":
		return RegimeDeficitCeiling, true
	case "debt_anchor":
		return RegimeDebtAnchor, true
	case "falling_debt":
		return RegimeFallingDebt, true
	case "investment_rule":
		return RegimeInvestmentRule, true
	case "no_rule":
		return RegimeNoRule, true
	}
	return 0, false
}

// String returns the config-file spelling of the id.
func (id RegimeID) String() string {
	switch id {
	case RegimeGoldenRule:
		return "golden_rule"
	case RegimeBalancedBudget:
		return "balanced_budget"
	case RegimeDeficitCeiling:
		return "deficit_ceiling"
	case RegimeDebtAnchor:
		return "debt_anchor"
	case RegimeFallingDebt:
		return "falling_debt"
	case RegimeInvestmentRule:
		return "investment_rule"
	case RegimeNoRule:
		return "no_rule"
	}
	return "unknown"
}
