package economy

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise supplies smooth per-channel background variation keyed by turn
// number. Seeded once per game so replays are exact.
type Noise struct {
	growth   opensimplex.Noise
	prices   opensimplex.Noise
	approval opensimplex.Noise
	regional opensimplex.Noise
}

// NewNoise creates the noise fields for a game seed.
func NewNoise(seed int64) *Noise {
	return &Noise{
		growth:   opensimplex.NewNormalized(seed),
		prices:   opensimplex.NewNormalized(seed + 1),
		approval: opensimplex.NewNormalized(seed + 2),
		regional: opensimplex.NewNormalized(seed + 3),
	}
}

// at samples a channel at a turn, mapped to [-1, 1].
func at(n opensimplex.Noise, turn int, lane float64) float64 {
	return n.Eval2(float64(turn)*0.15, lane)*2 - 1
}

// StepInputs carries the policy stance the drift responds to.
type StepInputs struct {
	SpendingDeviation float64 // current spending minus scenario baseline, billions
	TaxRiseAboveLock  float64 // percentage points of tax above the locked baseline
	Compliant         bool    // last fiscal verdict
	YieldOffset       float64 // active regime's market reaction coefficient
}

// Step evolves the indicators by one turn (one sim-month). This is a small
// set of coupled first-order responses with noise, not a forecasting model:
// it exists so multi-turn games keep moving without the player setting every
// aggregate by hand.
func Step(in Indicators, inputs StepInputs, noise *Noise, turn int) Indicators {
	out := in

	// Growth drifts toward a stance-dependent trend. Fiscal loosening lifts
	// the trend a little, tax rises drag it.
	trend := 1.4 + inputs.SpendingDeviation*0.01 - inputs.TaxRiseAboveLock*0.08
	out.GrowthPct = in.GrowthPct*0.8 + trend*0.2 + at(noise.growth, turn, 0)*0.3

	// Unemployment responds inversely to growth with a floor.
	out.UnemploymentPct = in.UnemploymentPct + (1.5-out.GrowthPct)*0.08 + at(noise.growth, turn, 7)*0.1
	out.UnemploymentPct = clamp(out.UnemploymentPct, 2.5, 20)

	// Inflation picks up stimulus with a lag.
	out.InflationPct = in.InflationPct*0.85 + (2.0+inputs.SpendingDeviation*0.015)*0.15 + at(noise.prices, turn, 0)*0.2
	if out.InflationPct < -2 {
		out.InflationPct = -2
	}

	// Gilt yields track inflation plus the regime's market reaction; markets
	// add a premium while the framework is in breach.
	breachPremium := 0.0
	if !inputs.Compliant {
		breachPremium = 0.4
	}
	out.GiltYieldPct = 1.5 + out.InflationPct*0.6 + inputs.YieldOffset + breachPremium

	// GDP compounds monthly from annualized growth.
	out.GDP = in.GDP * (1 + out.GrowthPct/100/12)

	// Approval decays toward a sour baseline and reacts to the real economy.
	base := 40.0 + (out.GrowthPct-1.5)*2 - (out.UnemploymentPct-5)*1.5 - (out.InflationPct-2)*1.2
	out.NationalApproval = in.NationalApproval*0.9 + base*0.1 + at(noise.approval, turn, 0)*0.8
	if inputs.TaxRiseAboveLock > 0 {
		out.NationalApproval -= inputs.TaxRiseAboveLock * 0.3
	}

	// Regions wobble around the national figure on their own noise lanes.
	for r := 0; r < NumRegions; r++ {
		offset := at(noise.regional, turn, float64(r)*3.7) * 6
		out.RegionalApproval[r] = out.NationalApproval + offset
	}

	// Service quality erodes under spending restraint, recovers under largesse.
	out.ServiceQuality = in.ServiceQuality + inputs.SpendingDeviation*0.02 - 0.1

	out.Clamp()
	return out
}
