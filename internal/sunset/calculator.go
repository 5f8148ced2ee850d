// Package sunset is a pure function over (location, now) returning
// whether a sunset animation window is active and the local
// day-of-year. Coordinates and timezone come from the Location
// Registry.
package sunset

import (
	"fmt"
	"math"
	"time"

	"github.com/surflamp/lampd/internal/locations"
)

// Result is the Sunset Calculator's output.
type Result struct {
	SunsetTrigger bool
	DayOfYear     int
	SunsetTime    string // "HH:MM" local, or "Unknown" on any error
}

// unknownResult is returned whenever location lookup or computation
// fails; the calculator never errors, it degrades.
func unknownResult(now time.Time) Result {
	return Result{
		SunsetTrigger: false,
		DayOfYear:     now.YearDay(),
		SunsetTime:    "Unknown",
	}
}

// Calculator computes a sunset Result for a location at a point in
// time. Two implementations exist: Calculate (below), the default, and
// MeeusCalculate (meeus.go), built on the soniakeys/meeus ephemeris
// package. The Device API uses the default.
type Calculator func(locationName string, now time.Time, window time.Duration) Result

// Calculate resolves locationName to coordinates and timezone via the
// Location Registry, computes today's sunset in local time, and reports
// whether now falls within ±window of it.
func Calculate(locationName string, now time.Time, window time.Duration) Result {
	loc, ok := locations.Lookup(locationName)
	if !ok {
		return unknownResult(now)
	}

	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return unknownResult(now)
	}
	localNow := now.In(tz)

	sunsetUTCMinutes, err := sunsetMinutesUTC(localNow.YearDay(), loc.Latitude, loc.Longitude)
	if err != nil {
		return unknownResult(now)
	}
	if sunsetUTCMinutes < 0 {
		// Polar day or polar night: no well-defined sunset today.
		return unknownResult(now)
	}

	sunsetLocal := minutesToLocalTime(sunsetUTCMinutes, localNow, tz)

	diff := localNow.Sub(sunsetLocal)
	if diff < 0 {
		diff = -diff
	}

	return Result{
		SunsetTrigger: diff <= window,
		DayOfYear:     localNow.YearDay(),
		SunsetTime:    sunsetLocal.Format("15:04"),
	}
}

// sunsetMinutesUTC returns today's sunset as minutes from UTC midnight,
// or (-1, nil) for polar day/night, using standard declination and
// hour-angle solar-position formulas.
func sunsetMinutesUTC(dayOfYear int, latitude, longitude float64) (int, error) {
	if dayOfYear < 1 || dayOfYear > 366 {
		return 0, fmt.Errorf("day of year out of range: %d", dayOfYear)
	}

	doy := float64(dayOfYear)
	innerAngle := (356.6 + 0.9856*doy) * (math.Pi / 180.0)
	outerAngle := (278.97 + 0.9856*doy + 1.9165*math.Sin(innerAngle)) * (math.Pi / 180.0)
	declinationRad := math.Asin(0.39785 * math.Sin(outerAngle))

	latRad := latitude * (math.Pi / 180.0)

	// cos(H) = -tan(lat) * tan(declination); H is the sunset hour angle.
	cosH := -math.Tan(latRad) * math.Tan(declinationRad)
	if cosH < -1.0 || cosH > 1.0 {
		return -1, nil // midnight sun or polar night
	}

	hourAngleRad := math.Acos(cosH)
	hourAngleMinutes := hourAngleRad * (180.0 / math.Pi) / 15.0 * 60.0

	longitudeMinutes := longitude * 4.0
	eotMinutes := equationOfTime(dayOfYear)
	solarNoonUTC := 720.0 - longitudeMinutes - eotMinutes

	sunsetUTC := math.Mod(solarNoonUTC+hourAngleMinutes+1440, 1440)
	return int(math.Round(sunsetUTC)), nil
}

// equationOfTime returns the Equation of Time in minutes for the given
// day of year, the discrepancy between apparent and mean solar time.
func equationOfTime(dayOfYear int) float64 {
	refTime := time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	jd := 2440587.5 + float64(refTime.Unix())/86400.0
	t := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	l0 := fixAngle(280.46646 + t*(36000.76983+t*0.0003032))
	m := fixAngle(357.52911 + t*(35999.05029-t*0.0001537))
	e := 0.016708634 - t*(0.000042037+t*0.0000001267)
	eps0 := 23 + (26+(21.448-t*(46.815+t*(0.00059-t*0.001813)))/60)/60

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	return radToDeg(y*math.Sin(degToRad(2*l0))-
		2*e*math.Sin(degToRad(m))+
		4*e*y*math.Sin(degToRad(m))*math.Cos(degToRad(2*l0))-
		0.5*y*y*math.Sin(degToRad(4*l0))-
		1.25*e*e*math.Sin(degToRad(2*m))) * 4
}

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }
func fixAngle(angle float64) float64 { return math.Mod(angle+360, 360) }

// minutesToLocalTime converts UTC minutes-from-midnight for the same
// calendar day as reference into a local-zone time.Time.
func minutesToLocalTime(utcMinutes int, reference time.Time, tz *time.Location) time.Time {
	y, m, d := reference.UTC().Date()
	t := time.Date(y, m, d, 0, utcMinutes/60, utcMinutes%60, 0, time.UTC)
	return t.In(tz)
}
