package scoring

import (
	"github.com/photoscout/photoscout/internal/astro"
	"github.com/photoscout/photoscout/internal/weather"
)

// Tier is a recommendation bucket over the composite score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

// Score is the evaluated photography quality for one instant and
// location. Recomputing from identical inputs yields an identical Score.
type Score struct {
	// Sub-scores, each 0-100.
	Lighting   float64 `json:"lightingScore"`
	Weather    float64 `json:"weatherScore"`
	Visibility float64 `json:"visibilityScore"`

	// Overall is the lighting-dominant weighted composite, 0-100.
	Overall float64 `json:"overall"`

	// Recommendation is the tier bucket of Overall.
	Recommendation Tier `json:"recommendation"`

	// Reasons in evaluation order: lighting, weather, visibility,
	// temperature advisories.
	Reasons []Reason `json:"reasons"`
}

// Engine computes photography scores under a fixed configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates a scoring engine. A zero Config is replaced by
// DefaultConfig.
func NewEngine(cfg Config) *Engine {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Calculate scores an instant's conditions. It is a total function:
// every valid input combination yields a score, there is no error path.
func (e *Engine) Calculate(cond *astro.Conditions, wx weather.Conditions) Score {
	lighting, lightingReasons := e.lightingScore(cond)
	wxScore, weatherReasons, tempReasons := e.weatherScore(wx)
	visibility, visibilityReasons := e.visibilityScore(wx)

	overall := e.cfg.LightingWeight*lighting +
		e.cfg.WeatherWeight*wxScore +
		e.cfg.VisibilityWeight*visibility

	reasons := make([]Reason, 0, len(lightingReasons)+len(weatherReasons)+len(visibilityReasons)+len(tempReasons))
	reasons = append(reasons, lightingReasons...)
	reasons = append(reasons, weatherReasons...)
	reasons = append(reasons, visibilityReasons...)
	reasons = append(reasons, tempReasons...)

	return Score{
		Lighting:       lighting,
		Weather:        wxScore,
		Visibility:     visibility,
		Overall:        overall,
		Recommendation: e.cfg.TierFor(overall),
		Reasons:        reasons,
	}
}

// IsIdeal reports whether the composite score reaches the excellent tier.
func (e *Engine) IsIdeal(cond *astro.Conditions, wx weather.Conditions) bool {
	return e.Calculate(cond, wx).Overall >= e.cfg.ExcellentThreshold
}

// Next photo opportunity event names.
const (
	EventGoldenHour = "golden hour"
	EventSunset     = "sunset"
)

// NextPhotoTime describes the next noteworthy shooting opportunity.
type NextPhotoTime struct {
	Event       string `json:"time"`
	MinutesAway int    `json:"minutesAway"`
}

// NextBestPhotoTime suggests when to shoot next. It returns nil while
// inside a golden hour window, prefers an upcoming golden hour over
// sunset when both are known, and returns nil when neither is.
func NextBestPhotoTime(cond *astro.Conditions) *NextPhotoTime {
	if cond.IsGoldenHour {
		return nil
	}
	if m := cond.MinutesToGoldenHour; m != nil {
		return &NextPhotoTime{Event: EventGoldenHour, MinutesAway: *m}
	}
	if m := cond.MinutesToSunset; m != nil {
		return &NextPhotoTime{Event: EventSunset, MinutesAway: *m}
	}
	return nil
}

func (e *Engine) lightingScore(cond *astro.Conditions) (float64, []Reason) {
	var reasons []Reason

	switch {
	case cond.IsGoldenHour:
		reasons = append(reasons, goldenHourReason())
		return e.cfg.GoldenHourLighting, reasons
	case cond.IsBlueHour:
		reasons = append(reasons, blueHourReason())
		return e.cfg.BlueHourLighting, reasons
	}

	if m := cond.MinutesToGoldenHour; m != nil && *m > 0 && *m <= e.cfg.GoldenHourLeadMinutes {
		reasons = append(reasons, goldenHourSoonReason(*m))
	}

	if cond.TimeOfDay == astro.TimeOfDayNight {
		return e.cfg.NightLighting, reasons
	}

	// Daylight: the higher the sun climbs, the harsher the light. Soft
	// light just past golden hour scores near 85 and falls off linearly
	// to 40 at very high altitudes.
	score := 85 - clampRange((cond.SunAltitude-20)*0.9, 0, 45)
	if cond.SunAltitude >= e.cfg.HarshAltitudeDeg {
		reasons = append(reasons, harshMiddayReason())
	}
	return score, reasons
}

// weatherScore returns the sub-score, its reasons, and the temperature
// advisories separately; advisories are appended after visibility
// reasons and never change the number.
func (e *Engine) weatherScore(wx weather.Conditions) (float64, []Reason, []Reason) {
	var reasons []Reason

	// Baseline by cloud band. The dramatic band outscores clear skies:
	// scattered cloud adds interest to a landscape frame, so the curve is
	// intentionally non-monotonic in cloud cover.
	var score float64
	cloud := wx.CloudCoverPercent
	switch {
	case cloud >= e.cfg.OvercastCloudPercent:
		score = 35
		reasons = append(reasons, overcastReason())
	case cloud >= e.cfg.DramaticCloudMinPercent && cloud <= e.cfg.DramaticCloudMaxPercent:
		score = 95
		reasons = append(reasons, dramaticSkyReason())
	case cloud > e.cfg.DramaticCloudMaxPercent && cloud < 75:
		score = 70
	case cloud >= 75:
		score = 55
	case cloud < 20:
		score = 85
	default:
		score = 80
	}

	score -= wx.PrecipitationProbability * 0.3
	if wx.PrecipitationProbability >= e.cfg.HighPrecipProbability {
		reasons = append(reasons, highRainChanceReason())
	}

	score -= wx.WindSpeedMph * 0.5
	if wx.WindSpeedMph >= e.cfg.StrongWindMph {
		reasons = append(reasons, strongWindReason())
	}

	var tempReasons []Reason
	if wx.TemperatureC <= e.cfg.FreezingTempC {
		tempReasons = append(tempReasons, freezingReason())
	} else if wx.TemperatureC >= e.cfg.HotTempC {
		tempReasons = append(tempReasons, hotReason())
	}

	return clampRange(score, 0, 100), reasons, tempReasons
}

func (e *Engine) visibilityScore(wx weather.Conditions) (float64, []Reason) {
	var reasons []Reason

	v := wx.VisibilityMeters
	switch {
	case v >= e.cfg.ExcellentVisibilityMeters:
		reasons = append(reasons, excellentVisibilityReason())
		return 100, reasons
	case v <= e.cfg.LowVisibilityMeters:
		reasons = append(reasons, limitedVisibilityReason())
		return v / e.cfg.LowVisibilityMeters * 55, reasons
	default:
		span := e.cfg.ExcellentVisibilityMeters - e.cfg.LowVisibilityMeters
		return 55 + (v-e.cfg.LowVisibilityMeters)/span*45, reasons
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
