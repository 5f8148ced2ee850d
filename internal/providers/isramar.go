package providers

import "strings"

// ExtractIsramar is the custom extractor for the Israeli marine buoy
// network's parameters-array document shape, which does not fit the
// path-based model the other recipes use.
//
// Expected shape:
//
//	{"parameters": [
//	   {"name": "Significant wave height", "units": "m", "values": [0.41]},
//	   {"name": "Peak wave period", "units": "s", "values": [3.5]}
//	]}
func ExtractIsramar(doc map[string]any) map[string]float64 {
	out := map[string]float64{}

	rawParams, ok := doc["parameters"]
	if !ok {
		return out
	}
	params, ok := rawParams.([]any)
	if !ok {
		return out
	}

	for _, rp := range params {
		param, ok := rp.(map[string]any)
		if !ok {
			continue
		}
		name, _ := param["name"].(string)
		values, ok := param["values"].([]any)
		if !ok || len(values) == 0 {
			continue
		}
		v, ok := toFloat(values[0])
		if !ok {
			continue
		}

		switch {
		case strings.Contains(name, "Significant wave height"):
			out[FieldWaveHeightM] = v
		case strings.Contains(name, "Peak wave period"):
			out[FieldWavePeriodS] = v
		}
	}

	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
