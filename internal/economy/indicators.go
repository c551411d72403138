// Package economy holds the macro indicators the political simulation reads
// each turn, and the background drift that keeps them moving between budgets.
package economy

// Region identifies one of the four electoral regions.
type Region uint8

const (
	RegionNorth Region = iota
	RegionMidlands
	RegionSouth
	RegionCapital
)

// NumRegions is the fixed number of electoral regions.
const NumRegions = 4

// RegionName returns a display name for a region.
func RegionName(r Region) string {
	switch r {
	case RegionNorth:
		return "North"
	case RegionMidlands:
		return "Midlands"
	case RegionSouth:
		return "South"
	case RegionCapital:
		return "Capital"
	}
	return "Unknown"
}

// Indicators is the macro picture at the start of a turn. GDP and all
// currency figures are in billions; rates are percentages.
type Indicators struct {
	GDP             float64 `json:"gdp"`
	GrowthPct       float64 `json:"growth_pct"`
	InflationPct    float64 `json:"inflation_pct"`
	UnemploymentPct float64 `json:"unemployment_pct"`
	GiltYieldPct    float64 `json:"gilt_yield_pct"`

	// Political readings.
	NationalApproval float64              `json:"national_approval"` // 0–100
	RegionalApproval [NumRegions]float64  `json:"regional_approval"` // 0–100 each
	ServiceQuality   float64              `json:"service_quality"`   // 0–100
}

// Clamp forces every bounded indicator back into range. Applied at the point
// of mutation so out-of-range values never propagate.
func (in *Indicators) Clamp() {
	in.NationalApproval = clamp(in.NationalApproval, 0, 100)
	for i := range in.RegionalApproval {
		in.RegionalApproval[i] = clamp(in.RegionalApproval[i], 0, 100)
	}
	in.ServiceQuality = clamp(in.ServiceQuality, 0, 100)
	in.UnemploymentPct = clamp(in.UnemploymentPct, 0, 100)
	if in.GiltYieldPct < 0 {
		in.GiltYieldPct = 0
	}
	if in.GDP < 1 {
		in.GDP = 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
