package deviceapi

import (
	"github.com/surflamp/lampd/internal/constants"
	"github.com/surflamp/lampd/internal/store"
)

// observedWaveHeightM returns the currently stored wave height, or nil if
// no ConditionsRecord exists or the field itself is unset.
func observedWaveHeightM(c *store.ConditionsRecord) *float64 {
	if c == nil {
		return nil
	}
	return c.WaveHeightM
}

// observedWindSpeedKnots returns the currently stored wind speed
// converted to knots, matching the unit the user's threshold is
// expressed in, or nil if unavailable.
func observedWindSpeedKnots(c *store.ConditionsRecord) *float64 {
	if c == nil || c.WindSpeedMps == nil {
		return nil
	}
	knots := *c.WindSpeedMps * constants.MpsToKnots
	return &knots
}

// impossibleThreshold is a value the firmware's `current >= threshold`
// check can never satisfy, used to simulate a range alert ("blink only
// between min and max") on firmware that only understands a single
// minimum threshold.
const impossibleThreshold = 9999

// effectiveThreshold picks the threshold value to send to the device so
// that its fixed `if (current >= threshold) blink()` logic approximates
// a [min, max] range: below min or above max never blinks; within range
// blinks, because sending min makes the firmware's own comparison do
// the min-side check. current is nil when no ConditionsRecord exists
// or the relevant field is absent, which fails safe to the traditional
// (max-less) behavior.
func effectiveThreshold(current *float64, userMin float64, userMax *float64) float64 {
	if current == nil {
		return userMin
	}
	if userMax == nil {
		return userMin
	}
	if *current > *userMax {
		return impossibleThreshold
	}
	return userMin
}
