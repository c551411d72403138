package parliament

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/entropy"
)

func neutralInputs() TurnInputs {
	in := TurnInputs{}
	for i := range in.RegionalApproval {
		in.RegionalApproval[i] = NeutralApproval
	}
	return in
}

func TestSeedPopulation_FixedSizeAndRanges(t *testing.T) {
	pop := SeedPopulation(entropy.NewSource(7))
	require.Len(t, pop, PopulationSize)

	for _, r := range pop {
		assert.GreaterOrEqual(t, r.Ideology, -2.0)
		assert.LessOrEqual(t, r.Ideology, 2.0)
		assert.GreaterOrEqual(t, r.Loyalty, 0.0)
		assert.LessOrEqual(t, r.Loyalty, 100.0)
		assert.GreaterOrEqual(t, r.PriorityWeight, 0.0)
		assert.LessOrEqual(t, r.PriorityWeight, 1.0)
		assert.Less(t, int(r.Region), economy.NumRegions)
	}

	// Deterministic for the same seed.
	again := SeedPopulation(entropy.NewSource(7))
	assert.Equal(t, pop, again)
}

func TestUpdateLoyalty_Deterministic(t *testing.T) {
	rep := Representative{ID: 1, Ideology: -1.2, Marginality: 20, PriorityWeight: 0.4, Loyalty: 55}
	in := neutralInputs()
	in.SpendingDeviation = 12
	in.TaxRiseAboveLock = 2

	assert.Equal(t, rep.UpdateLoyalty(in), rep.UpdateLoyalty(in))
}

func TestUpdateLoyalty_IdeologySign(t *testing.T) {
	in := neutralInputs()
	in.SpendingDeviation = 15 // loose budget

	left := Representative{Ideology: -2, PriorityWeight: 0, Marginality: 50, Loyalty: 50}
	right := Representative{Ideology: 2, PriorityWeight: 0, Marginality: 50, Loyalty: 50}

	assert.Greater(t, left.UpdateLoyalty(in).Loyalty, left.Loyalty+0.4)   // beyond reversion
	assert.Less(t, right.UpdateLoyalty(in).Loyalty, right.Loyalty+0.6)   // fit cancels reversion and more
	assert.Greater(t, left.UpdateLoyalty(in).Loyalty, right.UpdateLoyalty(in).Loyalty)
}

func TestUpdateLoyalty_TaxPledgeHitsEveryone(t *testing.T) {
	in := neutralInputs()
	in.TaxRiseAboveLock = 5

	for _, ideology := range []float64{-2, 0, 2} {
		rep := Representative{Ideology: ideology, PriorityWeight: 0, Marginality: 50, Loyalty: 60}
		out := rep.UpdateLoyalty(in)
		// Full pledge clamp lands regardless of position: -4 at zero priority weight.
		assert.InDelta(t, 56, out.Loyalty, 1e-9, "ideology %.1f", ideology)
	}
}

func TestUpdateLoyalty_MarginalSeatsFeelSwingsHarder(t *testing.T) {
	in := neutralInputs()
	for i := range in.RegionalApproval {
		in.RegionalApproval[i] = 35 // ten under neutral
	}

	marginal := Representative{Marginality: 0, PriorityWeight: 1, Loyalty: 60}
	safe := Representative{Marginality: 100, PriorityWeight: 1, Loyalty: 60}

	// -1 swing x5 amplification clamps to -4; the safe seat feels nothing.
	assert.InDelta(t, 56, marginal.UpdateLoyalty(in).Loyalty, 1e-9)
	assert.InDelta(t, 60, safe.UpdateLoyalty(in).Loyalty, 1e-9)
}

func TestUpdateLoyalty_MeanReversion(t *testing.T) {
	in := neutralInputs()

	high := Representative{Loyalty: 80, Marginality: 100}
	low := Representative{Loyalty: 40, Marginality: 100}

	assert.InDelta(t, 79, high.UpdateLoyalty(in).Loyalty, 1e-9)
	assert.InDelta(t, 41, low.UpdateLoyalty(in).Loyalty, 1e-9)
}

func TestUpdateLoyalty_RebellionCounter(t *testing.T) {
	in := neutralInputs()
	in.BreachCount = 8 // clamp: flat -3

	rep := Representative{Loyalty: 31, Marginality: 100, MonthsSinceRebellion: 9}
	out := rep.UpdateLoyalty(in)
	require.True(t, out.RebellionReady())
	assert.Equal(t, 0, out.MonthsSinceRebellion)

	calm := Representative{Loyalty: 70, Marginality: 100, MonthsSinceRebellion: 9}
	out = calm.UpdateLoyalty(neutralInputs())
	assert.Equal(t, 10, out.MonthsSinceRebellion)
}

// Loyalty stays in [0,100] and the rebellion counter stays non-negative for
// any inputs whatsoever.
func TestUpdateLoyalty_BoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("loyalty bounded, counter non-negative", prop.ForAll(
		func(ideology, marginality, pw, loyalty, dev, rise, approval float64, breaches int) bool {
			rep := Representative{
				Ideology:       ideology,
				Marginality:    marginality,
				PriorityWeight: pw,
				Loyalty:        loyalty,
			}
			in := TurnInputs{
				SpendingDeviation: dev,
				TaxRiseAboveLock:  rise,
				BreachCount:       breaches,
			}
			for i := range in.RegionalApproval {
				in.RegionalApproval[i] = approval
			}
			out := rep.UpdateLoyalty(in)
			return out.Loyalty >= 0 && out.Loyalty <= 100 && out.MonthsSinceRebellion >= 0
		},
		gen.Float64Range(-2, 2),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 100),
		gen.Float64Range(-500, 500),
		gen.Float64Range(0, 30),
		gen.Float64Range(0, 100),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestApplyMoodDelta_Clamped(t *testing.T) {
	pop := []Representative{{Loyalty: 2}, {Loyalty: 50}, {Loyalty: 99}}

	ApplyMoodDelta(pop, -10)
	assert.Equal(t, 0.0, pop[0].Loyalty)
	assert.Equal(t, 40.0, pop[1].Loyalty)
	assert.Equal(t, 0, pop[0].MonthsSinceRebellion)

	ApplyMoodDelta(pop, +90)
	assert.Equal(t, 100.0, pop[2].Loyalty)
}
