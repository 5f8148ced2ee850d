// Package providers implements the Endpoint Registry and Transformer: a
// declarative table of provider recipes and the engine that applies one
// to a raw JSON document.
package providers

// Path navigates a JSON document; each element is either a string map
// key or an int slice index. A path of length 3 whose first element is
// "hourly" and whose last element is an int is an hourly-array path: the
// Transformer substitutes the current UTC hour's index for that trailing
// placeholder at runtime (see Transform).
type Path []any

// Conversion adjusts a raw extracted value before it is stored, e.g.
// Kelvin to Celsius.
type Conversion func(float64) float64

// CustomExtractor bypasses path-based extraction entirely for providers
// whose JSON shape doesn't fit the path model (Isramar's parameters
// array). It returns whatever canonical fields it could find; omitted
// fields are treated as not extracted by this source.
type CustomExtractor func(doc map[string]any) map[string]float64

// Recipe is the declarative extraction rule for one provider family.
type Recipe struct {
	// Fields maps canonical field name to its JSON path. Absent for
	// recipes that set CustomExtractor instead.
	Fields map[string]Path

	// Conversions holds an optional per-field unary transform.
	Conversions map[string]Conversion

	// CustomExtractor, when set, is used instead of Fields/Conversions.
	CustomExtractor CustomExtractor
}

// ProviderKind tags the recipe variants this registry ships. The
// URL-substring-to-kind mapping stays table-driven (see registry.go);
// the variant only exists so recipe lookup and dispatch are type-directed
// rather than string-keyed everywhere a recipe is used.
type ProviderKind string

const (
	KindOpenWeatherMap    ProviderKind = "openweathermap"
	KindOpenMeteoMarine   ProviderKind = "open_meteo_marine"
	KindOpenMeteoForecast ProviderKind = "open_meteo_forecast"
	KindIsramar           ProviderKind = "isramar"
)

// Canonical field names produced by every recipe.
const (
	FieldWaveHeightM   = "wave_height_m"
	FieldWavePeriodS   = "wave_period_s"
	FieldWaveDirection = "wave_direction_deg"
	FieldWindSpeedMPS  = "wind_speed_mps"
	FieldWindDirection = "wind_direction_deg"

	// FieldTemperatureC is extracted by the OpenWeatherMap recipe but is
	// not part of ConditionsRecord (the conditions table has no
	// temperature column); the Ingestion Engine drops it after the
	// Transformer runs.
	FieldTemperatureC = "temperature_c"
)

// ZeroFallbacks are the canonical field defaults applied once, at the
// end of a location's merge, for any field no provider supplied. Every
// shipped recipe's fallbacks resolve to these same zero values, so the
// Ingestion Engine applies them centrally instead of duplicating a
// fallback map per recipe.
var ZeroFallbacks = map[string]float64{
	FieldWaveHeightM:   0.0,
	FieldWavePeriodS:   0.0,
	FieldWaveDirection: 0.0,
	FieldWindSpeedMPS:  0.0,
	FieldWindDirection: 0.0,
}
