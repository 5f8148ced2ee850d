package providers

import "strings"

// kindBySubstring is the Endpoint Registry: a full URL is matched
// against each substring in order, and the first match wins. The marine
// entry keys on its full host and is listed before the forecast entry:
// "api.open-meteo.com" is itself a substring of marine URLs, so table
// order is what keeps them from resolving to the forecast family.
var kindBySubstring = []struct {
	Substring string
	Kind      ProviderKind
}{
	{"openweathermap.org", KindOpenWeatherMap},
	{"isramar.ocean.org.il", KindIsramar},
	{"marine-api.open-meteo.com", KindOpenMeteoMarine},
	{"api.open-meteo.com", KindOpenMeteoForecast},
}

// ResolveKind returns the provider kind whose registered substring
// appears in url, in table order, or false if none match.
func ResolveKind(url string) (ProviderKind, bool) {
	for _, entry := range kindBySubstring {
		if strings.Contains(url, entry.Substring) {
			return entry.Kind, true
		}
	}
	return "", false
}

var recipes = map[ProviderKind]Recipe{
	KindOpenWeatherMap: {
		Fields: map[string]Path{
			FieldWindSpeedMPS:  {"wind", "speed"},
			FieldWindDirection: {"wind", "deg"},
			FieldTemperatureC:  {"main", "temp"},
		},
		Conversions: map[string]Conversion{
			FieldTemperatureC: func(kelvin float64) float64 { return kelvin - 273.15 },
		},
	},
	KindOpenMeteoMarine: {
		Fields: map[string]Path{
			FieldWaveHeightM:   {"hourly", "wave_height", 0},
			FieldWavePeriodS:   {"hourly", "wave_period", 0},
			FieldWaveDirection: {"hourly", "wave_direction", 0},
		},
	},
	KindOpenMeteoForecast: {
		Fields: map[string]Path{
			FieldWindSpeedMPS:  {"hourly", "wind_speed_10m", 0},
			FieldWindDirection: {"hourly", "wind_direction_10m", 0},
		},
	},
	KindIsramar: {
		CustomExtractor: ExtractIsramar,
	},
}

// RecipeFor resolves url to its provider kind and returns the
// corresponding recipe, or false if no recipe applies.
func RecipeFor(url string) (Recipe, bool) {
	kind, ok := ResolveKind(url)
	if !ok {
		return Recipe{}, false
	}
	r, ok := recipes[kind]
	return r, ok
}
