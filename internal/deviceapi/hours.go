package deviceapi

import (
	"time"

	"github.com/surflamp/lampd/internal/locations"
	"github.com/surflamp/lampd/internal/store"
)

// quietHoursActive reports whether now, converted to location's local
// time, falls inside [startHour, endHour), treating start > end as an
// overnight window (e.g. 22:00-06:00). An unrecognized location always
// reads as not-quiet (fail open).
func quietHoursActive(location string, now time.Time, startHour, endHour int) bool {
	loc, ok := locations.Lookup(location)
	if !ok {
		return false
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return false
	}
	hour := now.In(tz).Hour()

	if startHour > endHour {
		return hour >= startHour || hour < endHour
	}
	return hour >= startHour && hour < endHour
}

// offHoursActive reports whether now, converted to user's local time of
// day, falls inside the user's configured off-hours window. It requires
// the feature to be enabled and both endpoints set; like
// quietHoursActive, an unrecognized location or a disabled/unset window
// always reads as not-off.
func offHoursActive(user store.User, now time.Time) bool {
	if !user.OffTimesEnabled || user.OffTimeStart == nil || user.OffTimeEnd == nil {
		return false
	}
	loc, ok := locations.Lookup(user.Location)
	if !ok {
		return false
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return false
	}

	current := timeOfDay(now.In(tz))
	start := timeOfDay(*user.OffTimeStart)
	end := timeOfDay(*user.OffTimeEnd)

	if start > end {
		return current >= start || current < end
	}
	return current >= start && current < end
}

// timeOfDay reduces a time.Time to seconds since local midnight, so only
// the wall-clock time of day is compared, not the calendar date.
func timeOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
