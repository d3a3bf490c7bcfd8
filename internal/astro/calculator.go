package astro

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/julian"
)

// Altitude bands, in degrees of solar altitude.
//
// Golden hour runs from sunrise (geometric altitude -0.833°, accounting
// for refraction and the solar disc) until the sun passes +6°; blue hour
// covers civil twilight between -6° and sunrise altitude.
const (
	GoldenHourMaxAltitude = 6.0
	SunriseAltitude       = -0.833
	BlueHourMinAltitude   = -6.0
)

// SunPosition returns the sun's altitude and azimuth in degrees for an
// instant and location. Azimuth is measured clockwise from north.
func SunPosition(t time.Time, lat, lng float64) (altitude, azimuth float64) {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	T := (jd - 2451545.0) / 36525.0

	// Geometric mean longitude and anomaly of the sun.
	l0 := normalizeDeg(280.46646 + T*(36000.76983+T*0.0003032))
	m := normalizeDeg(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)

	// Equation of center and apparent longitude.
	c := math.Sin(degToRad(m))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*m))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*m))*0.000289
	omega := 125.04 - 1934.136*T
	lambda := l0 + c - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	// Obliquity and declination.
	eps := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	decl := math.Asin(math.Sin(degToRad(eps)) * math.Sin(degToRad(lambda)))

	// Equation of time, in minutes.
	y := math.Tan(degToRad(eps)/2) * math.Tan(degToRad(eps)/2)
	eqTimeMin := 4 * radToDeg(y*math.Sin(degToRad(2*l0))-
		2*e*math.Sin(degToRad(m))+
		4*e*y*math.Sin(degToRad(m))*math.Cos(degToRad(2*l0))-
		0.5*y*y*math.Sin(degToRad(4*l0))-
		1.25*e*e*math.Sin(degToRad(2*m)))

	// True solar time and hour angle.
	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	tst := utcMin + 4*lng + eqTimeMin
	ha := tst/4 - 180
	haRad := degToRad(ha)

	latRad := degToRad(lat)
	cosZen := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	cosZen = clamp(cosZen, -1, 1)
	zenRad := math.Acos(cosZen)
	altitude = 90 - radToDeg(zenRad)

	azDen := math.Cos(latRad) * math.Sin(zenRad)
	if azDen == 0 {
		// Sun at the zenith or observer at a pole; azimuth is undefined,
		// report north.
		return altitude, 0
	}
	azArg := clamp((math.Sin(decl)-math.Sin(latRad)*cosZen)/azDen, -1, 1)
	azimuth = radToDeg(math.Acos(azArg))
	if ha > 0 {
		azimuth = 360 - azimuth
	}
	return altitude, azimuth
}

// ComputeSunTimes returns the sun event boundaries for the calendar day
// (UTC) containing date. Windows the sun never reaches are nil.
func ComputeSunTimes(date time.Time, lat, lng float64) (*SunTimes, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	date = date.UTC()
	year, month, day := date.Date()

	st := &SunTimes{
		Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}

	rise, set := sunrise.SunriseSunset(lat, lng, year, month, day)
	st.Sunrise = timePtr(rise)
	st.Sunset = timePtr(set)

	goldenAM, goldenPM := sunrise.TimeOfElevation(lat, lng, GoldenHourMaxAltitude, year, month, day)
	st.GoldenHourMorningEnd = timePtr(goldenAM)
	st.GoldenHourEveningStart = timePtr(goldenPM)

	blueAM, bluePM := sunrise.TimeOfElevation(lat, lng, BlueHourMinAltitude, year, month, day)
	st.BlueHourMorningStart = timePtr(blueAM)
	st.BlueHourEveningEnd = timePtr(bluePM)

	return st, nil
}

// ComputeConditions classifies the light situation at an instant and
// location. Out-of-range coordinates return ErrInvalidCoordinate.
func ComputeConditions(t time.Time, lat, lng float64) (*Conditions, error) {
	cond, _, err := ComputeConditionsAndTimes(t, lat, lng)
	return cond, err
}

// ComputeConditionsAndTimes returns the conditions together with the
// day's sun times. Classification needs the sun times anyway, so callers
// that want both avoid computing them twice.
func ComputeConditionsAndTimes(t time.Time, lat, lng float64) (*Conditions, *SunTimes, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, nil, err
	}

	alt, az := SunPosition(t, lat, lng)

	cond := &Conditions{
		Time:        t,
		Lat:         lat,
		Lng:         lng,
		SunAltitude: alt,
		SunAzimuth:  az,
	}

	morning := az < 180
	switch {
	case alt >= SunriseAltitude && alt <= GoldenHourMaxAltitude:
		cond.IsGoldenHour = true
		if morning {
			cond.TimeOfDay = TimeOfDayGoldenHourMorning
		} else {
			cond.TimeOfDay = TimeOfDayGoldenHourEvening
		}
	case alt >= BlueHourMinAltitude && alt < SunriseAltitude:
		cond.IsBlueHour = true
		if morning {
			cond.TimeOfDay = TimeOfDayBlueHourMorning
		} else {
			cond.TimeOfDay = TimeOfDayBlueHourEvening
		}
	case alt > GoldenHourMaxAltitude:
		cond.TimeOfDay = TimeOfDayDay
	default:
		cond.TimeOfDay = TimeOfDayNight
	}

	st, err := ComputeSunTimes(t, lat, lng)
	if err != nil {
		return nil, nil, err
	}

	cond.MinutesToSunrise = minutesUntil(t, st.Sunrise)
	cond.MinutesToSunset = minutesUntil(t, st.Sunset)
	cond.MinutesToGoldenHour = minutesToGoldenHour(t, cond, st)

	return cond, st, nil
}

// minutesToGoldenHour returns 0 inside a golden hour window, the minutes
// to the next window start otherwise, or nil when no window remains for
// the day.
func minutesToGoldenHour(t time.Time, cond *Conditions, st *SunTimes) *int {
	if cond.IsGoldenHour {
		zero := 0
		return &zero
	}

	// The morning window starts at sunrise, the evening window when the
	// sun drops back to the golden hour altitude.
	if m := minutesUntil(t, st.Sunrise); m != nil {
		return m
	}
	return minutesUntil(t, st.GoldenHourEveningStart)
}

// minutesUntil returns whole minutes from t to event, or nil if the
// event is absent or already past.
func minutesUntil(t time.Time, event *time.Time) *int {
	if event == nil || !event.After(t) {
		return nil
	}
	m := int(event.Sub(t).Minutes())
	return &m
}

// timePtr returns nil for the zero time the sunrise library reports when
// an event does not occur, a pointer otherwise.
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

func normalizeDeg(a float64) float64 { return a - 360*math.Floor(a/360) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
