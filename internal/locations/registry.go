// Package locations is the Location Registry: a process-wide constant
// table of supported coastal locations, their ordered provider sources,
// IANA timezone, and coordinates for sunset computation. This is
// configuration, not persisted state; the table ships with the binary.
package locations

// Source is one provider entry for a location: its URL, merge priority
// (lower wins), and an optional API key name to look up in configuration.
type Source struct {
	URL       string
	Priority  int
	APIKeyEnv string // empty if the provider needs no key
}

// Location is one entry in the registry.
type Location struct {
	Name      string
	Timezone  string
	Latitude  float64
	Longitude float64
	Sources   []Source
}

// registry is the embedded table of supported locations. Provider URLs
// follow the recipes shipped in internal/providers.
var registry = map[string]Location{
	"Hadera, Israel": {
		Name:      "Hadera, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  32.4365,
		Longitude: 34.9196,
		Sources: []Source{
			{URL: "https://isramar.ocean.org.il/isramar2009/station/data/Hadera_Hs_Per.json", Priority: 1},
			{URL: "https://marine-api.open-meteo.com/v1/marine?latitude=32.4365&longitude=34.9196&hourly=wave_height,wave_period,wave_direction", Priority: 2},
			{URL: "https://api.open-meteo.com/v1/forecast?latitude=32.4365&longitude=34.9196&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms", Priority: 3},
		},
	},
	"Tel Aviv, Israel": {
		Name:      "Tel Aviv, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  32.0853,
		Longitude: 34.7818,
		Sources: []Source{
			{URL: "https://marine-api.open-meteo.com/v1/marine?latitude=32.0853&longitude=34.7818&hourly=wave_height,wave_period,wave_direction", Priority: 1},
			{URL: "https://api.open-meteo.com/v1/forecast?latitude=32.0853&longitude=34.7818&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms", Priority: 2},
		},
	},
	"Haifa, Israel": {
		Name:      "Haifa, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  32.7940,
		Longitude: 34.9896,
		Sources: []Source{
			{URL: "https://marine-api.open-meteo.com/v1/marine?latitude=32.7940&longitude=34.9896&hourly=wave_height,wave_period,wave_direction", Priority: 1},
			{URL: "https://api.open-meteo.com/v1/forecast?latitude=32.7940&longitude=34.9896&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms", Priority: 2},
		},
	},
	"Eilat, Israel": {
		Name:      "Eilat, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  29.5577,
		Longitude: 34.9519,
		Sources: []Source{
			{URL: "https://marine-api.open-meteo.com/v1/marine?latitude=29.5577&longitude=34.9519&hourly=wave_height,wave_period,wave_direction", Priority: 1},
			{URL: "https://api.open-meteo.com/v1/forecast?latitude=29.5577&longitude=34.9519&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms", Priority: 2},
		},
	},
	"Herzliya, Israel": {
		Name:      "Herzliya, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  32.1624,
		Longitude: 34.8447,
		Sources: []Source{
			{URL: "https://marine-api.open-meteo.com/v1/marine?latitude=32.1624&longitude=34.8447&hourly=wave_height,wave_period,wave_direction", Priority: 1},
			{URL: "https://api.open-meteo.com/v1/forecast?latitude=32.1624&longitude=34.8447&hourly=wind_speed_10m,wind_direction_10m&wind_speed_unit=ms", Priority: 2},
		},
	},
}

// Lookup returns the registered Location for name, or false if the
// location string is not in the registry (callers log and skip unknown
// locations).
func Lookup(name string) (Location, bool) {
	loc, ok := registry[name]
	return loc, ok
}

// Active intersects candidateLocations (typically distinct User.location
// values from the Conditions Store) with the registry, returning only the
// ones this registry recognizes. Unknown names are returned separately so
// the caller can log them.
func Active(candidateLocations []string) (known []Location, unknown []string) {
	seen := map[string]bool{}
	for _, name := range candidateLocations {
		if seen[name] {
			continue
		}
		seen[name] = true
		if loc, ok := registry[name]; ok {
			known = append(known, loc)
		} else {
			unknown = append(unknown, name)
		}
	}
	return known, unknown
}

// OrderedSources returns loc's sources sorted by ascending priority
// (lower priority number merges first / wins), stable on equal priority
// so equal-priority sources still merge left-to-right as declared.
func OrderedSources(loc Location) []Source {
	out := make([]Source, len(loc.Sources))
	copy(out, loc.Sources)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
