package sunset

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"

	"github.com/surflamp/lampd/internal/locations"
)

// MeeusCalculate is an alternate Calculator backend using the same
// declination/hour-angle/equation-of-time approach as Calculate, built
// on julian.TimeToJD for the Julian-date conversion and unit.Angle for
// every trig step, with the higher-order solar-longitude correction
// terms included. Calculate stays the default; the two agree to within
// a couple of minutes at the registry's latitudes.
func MeeusCalculate(locationName string, now time.Time, window time.Duration) Result {
	loc, ok := locations.Lookup(locationName)
	if !ok {
		return unknownResult(now)
	}

	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return unknownResult(now)
	}
	localNow := now.In(tz)

	sunsetUTCMinutes, ok := meeusSunsetMinutesUTC(localNow, loc.Latitude, loc.Longitude)
	if !ok {
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

// meeusSunsetMinutesUTC returns today's sunset as minutes from UTC
// midnight for reference's calendar day, or (_, false) for polar
// day/night. jd feeds the T-in-Julian-centuries term every series below
// expands in.
func meeusSunsetMinutesUTC(reference time.Time, latitude, longitude float64) (int, bool) {
	midnightUTC := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	jd := julian.TimeToJD(midnightUTC)
	jc := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	l0 := unit.AngleFromDeg(fixAngle(280.46646 + jc*(36000.76983+jc*0.0003032)))
	m := unit.AngleFromDeg(fixAngle(357.52911 + jc*(35999.05029-jc*0.0001537)))
	e := 0.016708634 - jc*(0.000042037+jc*0.0000001267)
	c := m.Sin()*(1.914602-jc*(0.004817+jc*0.000014)) +
		unit.AngleFromDeg(2*m.Deg()).Sin()*(0.019993-jc*0.000101) +
		unit.AngleFromDeg(3*m.Deg()).Sin()*0.000289
	sunLong := l0.Deg() + c
	omega := 125.04 - 1934.136*jc
	lambda := unit.AngleFromDeg(sunLong - 0.00569 - 0.00478*unit.AngleFromDeg(omega).Sin())
	eps0 := unit.AngleFromDeg(23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60)

	declination := unit.Angle(math.Asin(eps0.Sin() * lambda.Sin()))

	latRad := unit.AngleFromDeg(latitude)
	cosH := -latRad.Tan() * declination.Tan()
	if cosH < -1.0 || cosH > 1.0 {
		return 0, false // midnight sun or polar night
	}
	hourAngle := unit.Angle(math.Acos(cosH))
	hourAngleMinutes := hourAngle.Deg() / 15.0 * 60.0

	y := eps0.Div(2).Tan() * eps0.Div(2).Tan()
	eotMinutes := (y*unit.AngleFromDeg(2*l0.Deg()).Sin() -
		2*e*m.Sin() +
		4*e*y*m.Sin()*unit.AngleFromDeg(2*l0.Deg()).Cos() -
		0.5*y*y*unit.AngleFromDeg(4*l0.Deg()).Sin() -
		1.25*e*e*unit.AngleFromDeg(2*m.Deg()).Sin()) * 4 * 180 / math.Pi

	longitudeMinutes := longitude * 4.0
	solarNoonUTC := 720.0 - longitudeMinutes - eotMinutes
	sunsetUTC := math.Mod(solarNoonUTC+hourAngleMinutes+1440, 1440)
	return int(math.Round(sunsetUTC)), true
}
