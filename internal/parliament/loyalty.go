package parliament

import (
	"github.com/redbox-games/chancellor/internal/economy"
)

// TurnInputs is everything the loyalty update reads for one turn. The same
// value is applied to every representative, so the per-agent pass is O(n)
// and fully deterministic.
type TurnInputs struct {
	SpendingDeviation float64 // current spending minus baseline, billions
	TaxRiseAboveLock  float64 // pp of unplanned tax above the locked baseline
	RegionalApproval  [economy.NumRegions]float64
	BreachCount       int     // manifesto breaches recorded this run
	DriftTarget       float64 // active regime's backbench drift coefficient
}

// Per-term clamps. Each term is bounded before summing so no single signal
// can swing a representative by more than a few points per turn.
const (
	ideologyClampAbs     = 3.0
	pledgeClampAbs       = 4.0
	constituencyClampAbs = 4.0
	breachClampAbs       = 3.0

	pledgePenaltyPerPt = 0.8  // per pp of unplanned tax rise, hits everyone
	breachPenaltyEach  = 0.4  // per recorded breach, flat and uniform
	reversionRate      = 0.05 // pull toward LoyaltyBaseline each turn
)

// UpdateLoyalty returns the representative after one turn of loyalty
// movement. Pure: no randomness, no mutation of the input.
func (r Representative) UpdateLoyalty(in TurnInputs) Representative {
	// 1. Ideological fit. Spending above baseline pleases the left and irks
	//    the right, symmetrically. An unplanned tax rise above the locked
	//    baseline is a broken cross-party pledge and costs every member
	//    regardless of position. Ideology-driven members feel this fully.
	ideoFit := clampAbs((in.SpendingDeviation/15.0)*(-r.Ideology)+in.DriftTarget*0.1, ideologyClampAbs)
	pledge := clampAbs(-in.TaxRiseAboveLock*pledgePenaltyPerPt, pledgeClampAbs)
	ideological := (ideoFit + pledge) * (1 - r.PriorityWeight)

	// 2. Constituency signal. Marginal seats feel approval swings up to 5x
	//    harder than safe seats.
	regionApproval := in.RegionalApproval[r.Region]
	pressure := (regionApproval - NeutralApproval) / 10 * ((100 - r.Marginality) / 20)
	constituency := clampAbs(pressure, constituencyClampAbs) * r.PriorityWeight

	// 3. Collective breach penalty, uniform across the party.
	breach := clampAbs(-float64(in.BreachCount)*breachPenaltyEach, breachClampAbs)

	// 4. Mean reversion: initial goodwill fades toward the baseline whatever
	//    the government does.
	reversion := reversionRate * (LoyaltyBaseline - r.Loyalty)

	out := r
	out.Loyalty = clamp01to100(r.Loyalty + ideological + constituency + breach + reversion)

	if out.RebellionReady() {
		out.MonthsSinceRebellion = 0
	} else {
		out.MonthsSinceRebellion = r.MonthsSinceRebellion + 1
	}
	return out
}

// UpdatePopulation runs the loyalty update across the whole population,
// rewriting the slice in place by value.
func UpdatePopulation(pop []Representative, in TurnInputs) {
	for i := range pop {
		pop[i] = pop[i].UpdateLoyalty(in)
	}
}

// ApplyMoodDelta shifts every representative's loyalty uniformly, clamped
// at the point of mutation. Used when intervention consequences land.
func ApplyMoodDelta(pop []Representative, delta float64) {
	for i := range pop {
		pop[i].Loyalty = clamp01to100(pop[i].Loyalty + delta)
		if pop[i].RebellionReady() {
			pop[i].MonthsSinceRebellion = 0
		}
	}
}

func clampAbs(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

func clamp01to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
