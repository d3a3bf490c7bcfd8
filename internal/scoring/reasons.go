package scoring

import "fmt"

// ReasonCode tags a scoring reason so tests and localization can match
// on the code instead of the prose.
type ReasonCode string

const (
	ReasonGoldenHour          ReasonCode = "golden_hour"
	ReasonBlueHour            ReasonCode = "blue_hour"
	ReasonGoldenHourSoon      ReasonCode = "golden_hour_soon"
	ReasonHarshMidday         ReasonCode = "harsh_midday"
	ReasonOvercast            ReasonCode = "overcast"
	ReasonDramaticSky         ReasonCode = "dramatic_sky"
	ReasonHighRainChance      ReasonCode = "high_rain_chance"
	ReasonStrongWind          ReasonCode = "strong_wind"
	ReasonExcellentVisibility ReasonCode = "excellent_visibility"
	ReasonLimitedVisibility   ReasonCode = "limited_visibility"
	ReasonFreezing            ReasonCode = "freezing"
	ReasonHot                 ReasonCode = "hot"
)

// Reason is one explained contribution to a score.
type Reason struct {
	Code    ReasonCode `json:"code"`
	Message string     `json:"message"`
}

func goldenHourReason() Reason {
	return Reason{ReasonGoldenHour, "Golden hour - warm directional light"}
}

func blueHourReason() Reason {
	return Reason{ReasonBlueHour, "Blue hour - soft even twilight"}
}

func goldenHourSoonReason(minutes int) Reason {
	return Reason{ReasonGoldenHourSoon, fmt.Sprintf("Golden hour starting in %d minutes", minutes)}
}

func harshMiddayReason() Reason {
	return Reason{ReasonHarshMidday, "Harsh midday light - consider waiting for golden hour"}
}

func overcastReason() Reason {
	return Reason{ReasonOvercast, "Overcast conditions - flat lighting"}
}

func dramaticSkyReason() Reason {
	return Reason{ReasonDramaticSky, "Partly cloudy - good for dramatic skies"}
}

func highRainChanceReason() Reason {
	return Reason{ReasonHighRainChance, "High chance of rain - protect your gear"}
}

func strongWindReason() Reason {
	return Reason{ReasonStrongWind, "Strong winds - tripod stability may be challenging"}
}

func excellentVisibilityReason() Reason {
	return Reason{ReasonExcellentVisibility, "Excellent visibility for distant landscapes"}
}

func limitedVisibilityReason() Reason {
	return Reason{ReasonLimitedVisibility, "Limited visibility may affect distant views"}
}

func freezingReason() Reason {
	return Reason{ReasonFreezing, "Freezing temperatures - dress warmly, protect batteries"}
}

func hotReason() Reason {
	return Reason{ReasonHot, "Warm conditions - stay hydrated"}
}
