package parliament

// Faction partitions the party by ideology.
type Faction string

const (
	FactionLeft   Faction = "left"
	FactionCentre Faction = "centre"
	FactionRight  Faction = "right"
	FactionAll    Faction = "all" // systemic crisis marker, not a real partition
)

// Ideology thresholds for the faction partition.
const factionThreshold = 0.5

// RebellionRisk is the five-level classification of the rebellion-ready count.
type RebellionRisk string

const (
	RiskNone     RebellionRisk = "none"
	RiskLow      RebellionRisk = "low"
	RiskModerate RebellionRisk = "moderate"
	RiskHigh     RebellionRisk = "high"
	RiskCritical RebellionRisk = "critical"
)

// SentimentSnapshot is the derived, per-turn reduction of the population.
type SentimentSnapshot struct {
	OverallMood float64 `json:"overall_mood"`

	LeftMood   float64 `json:"left_mood"`
	CentreMood float64 `json:"centre_mood"`
	RightMood  float64 `json:"right_mood"`

	LeftCount   int `json:"left_count"`
	CentreCount int `json:"centre_count"`
	RightCount  int `json:"right_count"`

	RebelReady int `json:"rebel_ready"` // loyalty < 30
	Wavering   int `json:"wavering"`    // 30–60
	Solid      int `json:"solid"`       // > 60

	Risk         RebellionRisk `json:"risk"`
	WorstFaction Faction       `json:"worst_faction"`
}

// systemicMoodFloor: below this overall mood the crisis is systemic, not
// factional, and WorstFaction reports "all".
const systemicMoodFloor = 40.0

// ClassifyRisk maps a rebellion-ready count to a risk tier. Breakpoints are
// strict: exactly 30 ready is moderate, not high.
func ClassifyRisk(ready int) RebellionRisk {
	switch {
	case ready > 50:
		return RiskCritical
	case ready > 30:
		return RiskHigh
	case ready > 15:
		return RiskModerate
	case ready > 5:
		return RiskLow
	}
	return RiskNone
}

// Aggregate reduces the population to a SentimentSnapshot. Pure function of
// the population contents.
func Aggregate(pop []Representative) SentimentSnapshot {
	var snap SentimentSnapshot
	var leftSum, centreSum, rightSum float64

	for _, r := range pop {
		switch {
		case r.Ideology < -factionThreshold:
			snap.LeftCount++
			leftSum += r.Loyalty
		case r.Ideology > factionThreshold:
			snap.RightCount++
			rightSum += r.Loyalty
		default:
			snap.CentreCount++
			centreSum += r.Loyalty
		}

		switch {
		case r.Loyalty < RebelThreshold:
			snap.RebelReady++
		case r.Loyalty <= LoyalThreshold:
			snap.Wavering++
		default:
			snap.Solid++
		}
	}

	if snap.LeftCount > 0 {
		snap.LeftMood = leftSum / float64(snap.LeftCount)
	}
	if snap.CentreCount > 0 {
		snap.CentreMood = centreSum / float64(snap.CentreCount)
	}
	if snap.RightCount > 0 {
		snap.RightMood = rightSum / float64(snap.RightCount)
	}

	// Overall mood is the population-size-weighted average of faction moods,
	// which collapses to the plain mean over all members.
	if n := len(pop); n > 0 {
		snap.OverallMood = (leftSum + centreSum + rightSum) / float64(n)
	}

	snap.Risk = ClassifyRisk(snap.RebelReady)
	snap.WorstFaction = worstFaction(snap)
	return snap
}

func worstFaction(snap SentimentSnapshot) Faction {
	if snap.OverallMood < systemicMoodFloor {
		return FactionAll
	}
	worst := FactionCentre
	worstMood := snap.CentreMood
	if snap.LeftCount > 0 && (snap.CentreCount == 0 || snap.LeftMood < worstMood) {
		worst, worstMood = FactionLeft, snap.LeftMood
	}
	if snap.RightCount > 0 && snap.RightMood < worstMood {
		worst = FactionRight
	}
	return worst
}
