package weather

// Neutral defaults applied when a field is absent upstream. These are
// deliberate mid-range values: mapping a missing field to zero would be
// indistinguishable from a real clear-sky / calm-air reading.
const (
	DefaultCloudCoverPercent        = 50.0
	DefaultVisibilityMeters         = 10000.0
	DefaultWindSpeedMph             = 5.0
	DefaultPrecipitationProbability = 20.0
	DefaultTemperatureC             = 15.0
)

const metersPerSecondToMph = 2.236936

// AdaptForPhotography maps an upstream snapshot into the shape the
// scoring engine consumes: unit normalization and neutral defaults only,
// no scoring logic.
func AdaptForPhotography(snap Snapshot) Conditions {
	cond := Conditions{
		CloudCoverPercent:        DefaultCloudCoverPercent,
		VisibilityMeters:         DefaultVisibilityMeters,
		WindSpeedMph:             DefaultWindSpeedMph,
		PrecipitationProbability: DefaultPrecipitationProbability,
		TemperatureC:             DefaultTemperatureC,
	}

	if snap.CloudCoverPercent != nil {
		cond.CloudCoverPercent = clampRange(*snap.CloudCoverPercent, 0, 100)
	}
	if snap.VisibilityMeters != nil {
		cond.VisibilityMeters = max(0, *snap.VisibilityMeters)
	}
	if snap.WindSpeedMS != nil {
		cond.WindSpeedMph = max(0, *snap.WindSpeedMS) * metersPerSecondToMph
	}
	if snap.PrecipitationProbability != nil {
		cond.PrecipitationProbability = clampRange(*snap.PrecipitationProbability, 0, 100)
	}
	if snap.TemperatureC != nil {
		cond.TemperatureC = *snap.TemperatureC
	}

	return cond
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
