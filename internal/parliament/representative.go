// Package parliament models the governing party's backbench: a fixed
// population of representatives whose loyalty moves each turn, and the
// aggregation of that population into sentiment signals.
package parliament

import (
	"github.com/redbox-games/chancellor/internal/economy"
	"github.com/redbox-games/chancellor/internal/entropy"
)

// PopulationSize is fixed at game creation; representatives are never added
// or removed during a run.
const PopulationSize = 200

// Loyalty thresholds.
const (
	RebelThreshold   = 30.0 // below this a representative is rebellion-ready
	LoyalThreshold   = 60.0 // above this a representative is solidly loyal
	LoyaltyBaseline  = 60.0 // mean-reversion target
	NeutralApproval  = 45.0 // regional approval centred here reads as neutral
)

// Representative is one backbencher. Only Loyalty and MonthsSinceRebellion
// mutate after creation, once per turn, by the orchestrator.
type Representative struct {
	ID                   int            `json:"id" db:"id"`
	Ideology             float64        `json:"ideology" db:"ideology"`       // -2.0 (left) … +2.0 (right)
	Marginality          float64        `json:"marginality" db:"marginality"` // 0 = ultra-marginal, 100 = ultra-safe
	PriorityWeight       float64        `json:"priority_weight" db:"priority_weight"` // 0 = ideology-driven, 1 = constituency-driven
	Loyalty              float64        `json:"loyalty" db:"loyalty"` // 0–100
	MonthsSinceRebellion int            `json:"months_since_rebellion" db:"months_since_rebellion"`
	Region               economy.Region `json:"region" db:"region"`
}

// RebellionReady reports whether loyalty has fallen below the critical
// threshold.
func (r Representative) RebellionReady() bool {
	return r.Loyalty < RebelThreshold
}

// SeedPopulation creates the fixed 200-member population from a source.
// Deterministic for a given source state. Ideology is spread across the
// party's range with a centrist bulk; marginality and loyalty get wide
// spreads so the population has a vulnerable tail from the start.
func SeedPopulation(src *entropy.Source) []Representative {
	pop := make([]Representative, PopulationSize)
	for i := range pop {
		// Sum of two draws biases ideology toward the centre.
		ideology := (src.Float64()+src.Float64())*2 - 2

		pop[i] = Representative{
			ID:                   i + 1,
			Ideology:             ideology,
			Marginality:          src.Range(2, 98),
			PriorityWeight:       src.Range(0.15, 0.85),
			Loyalty:              src.Range(38, 88),
			MonthsSinceRebellion: 12,
			Region:               economy.Region(src.Intn(economy.NumRegions)),
		}
	}
	return pop
}
