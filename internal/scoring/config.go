// Package scoring turns sun geometry and weather conditions into a
// single comparable photography quality score with explained reasons.
package scoring

// Config collects every threshold and weight the scoring engine uses,
// so boundary values live in one place instead of being scattered
// through the calculation.
type Config struct {
	// Composite weights; lighting dominates so a golden hour instant
	// survives poor weather. Must sum to 1.
	LightingWeight   float64
	WeatherWeight    float64
	VisibilityWeight float64

	// Fixed lighting sub-scores per window.
	GoldenHourLighting float64
	BlueHourLighting   float64
	NightLighting      float64

	// HarshAltitudeDeg is the sun altitude above which daytime light is
	// called out as harsh.
	HarshAltitudeDeg float64

	// Cloud cover bands. Cover at or above OvercastCloudPercent is
	// penalized; the dramatic band [DramaticCloudMinPercent,
	// DramaticCloudMaxPercent] gets a bonus over clear skies.
	OvercastCloudPercent    float64
	DramaticCloudMinPercent float64
	DramaticCloudMaxPercent float64

	// HighPrecipProbability is the rain-chance percentage that triggers
	// the gear advisory.
	HighPrecipProbability float64

	// StrongWindMph is the wind speed that triggers the tripod advisory.
	StrongWindMph float64

	// Temperature advisories; these never change the numeric score.
	FreezingTempC float64
	HotTempC      float64

	// Visibility boundaries in meters.
	ExcellentVisibilityMeters float64
	LowVisibilityMeters       float64

	// GoldenHourLeadMinutes is the lead time within which an upcoming
	// golden hour is announced.
	GoldenHourLeadMinutes int

	// Recommendation tier boundaries on the composite score.
	ExcellentThreshold float64
	GoodThreshold      float64
	FairThreshold      float64
}

// DefaultConfig returns the calibrated scoring configuration.
func DefaultConfig() Config {
	return Config{
		LightingWeight:   0.5,
		WeatherWeight:    0.3,
		VisibilityWeight: 0.2,

		GoldenHourLighting: 100,
		BlueHourLighting:   90,
		NightLighting:      35,
		HarshAltitudeDeg:   65,

		OvercastCloudPercent:    90,
		DramaticCloudMinPercent: 35,
		DramaticCloudMaxPercent: 55,
		HighPrecipProbability:   70,
		StrongWindMph:           30,
		FreezingTempC:           0,
		HotTempC:                25,

		ExcellentVisibilityMeters: 40000,
		LowVisibilityMeters:       5000,

		GoldenHourLeadMinutes: 60,

		ExcellentThreshold: 80,
		GoodThreshold:      65,
		FairThreshold:      50,
	}
}

// TierFor buckets a composite score into a recommendation tier. The
// comparator and any presentation layer share these boundaries so a
// score and its tier label never disagree.
func (c Config) TierFor(overall float64) Tier {
	switch {
	case overall >= c.ExcellentThreshold:
		return TierExcellent
	case overall >= c.GoodThreshold:
		return TierGood
	case overall >= c.FairThreshold:
		return TierFair
	default:
		return TierPoor
	}
}
