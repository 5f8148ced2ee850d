package providers

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Transform applies the recipe matching url to doc and returns the
// normalized canonical fields it could extract. ok is false only when no
// recipe applies to url at all; an applicable recipe that extracts
// nothing still returns (empty map, true).
func Transform(doc map[string]any, url string, now time.Time, logger *zap.SugaredLogger) (map[string]float64, bool) {
	recipe, ok := RecipeFor(url)
	if !ok {
		logger.Warnw("no recipe for provider URL", "url", url)
		return nil, false
	}

	if recipe.CustomExtractor != nil {
		return recipe.CustomExtractor(doc), true
	}

	hourIndex := currentHourIndex(doc, now, logger)

	out := map[string]float64{}
	for field, path := range recipe.Fields {
		resolved := path
		if isHourlyPath(path) {
			resolved = Path{path[0], path[1], hourIndex}
		}

		raw, found := extractPath(doc, resolved)
		if !found {
			continue
		}
		value, ok := toFloat(raw)
		if !ok {
			continue
		}

		if conv, has := recipe.Conversions[field]; has {
			value = applyConversion(conv, value, field, logger)
		}
		out[field] = value
	}

	return out, true
}

// isHourlyPath reports whether path is the three-element
// ["hourly", <array>, <placeholder index>] shape the current-hour
// substitution applies to.
func isHourlyPath(path Path) bool {
	if len(path) != 3 {
		return false
	}
	key, ok := path[0].(string)
	if !ok || key != "hourly" {
		return false
	}
	_, ok = path[2].(int)
	return ok
}

// currentHourIndex finds the index in doc's hourly.time array whose
// value begins with now's UTC hour formatted "2006-01-02T15:04". If the
// document carries no hourly.time array, index 0 is used without
// logging; if no entry matches, index 0 is used and the fallback is
// logged.
func currentHourIndex(doc map[string]any, now time.Time, logger *zap.SugaredLogger) int {
	hourly, ok := doc["hourly"].(map[string]any)
	if !ok {
		return 0
	}
	times, ok := hourly["time"].([]any)
	if !ok {
		return 0
	}

	want := now.UTC().Truncate(time.Hour).Format("2006-01-02T15:04")

	for i, t := range times {
		s, ok := t.(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(s, want) {
			return i
		}
	}

	logger.Warnw("current hour not found in hourly.time array, defaulting to index 0", "want_prefix", want)
	return 0
}

// extractPath navigates doc by path. A missing key, out-of-range index,
// type mismatch, or explicit JSON null all yield (nil, false) uniformly;
// null and omitted are treated identically throughout this system.
func extractPath(doc any, path Path) (any, bool) {
	cur := doc
	for _, step := range path {
		if cur == nil {
			return nil, false
		}
		switch key := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, present := m[key]
			if !present {
				return nil, false
			}
			cur = v
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil, false
			}
			cur = s[key]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// applyConversion runs conv on value, logging and returning the raw
// value unchanged if conv panics (a malformed conversion must never
// abort a cycle).
func applyConversion(conv Conversion, value float64, field string, logger *zap.SugaredLogger) (result float64) {
	result = value
	defer func() {
		if r := recover(); r != nil {
			logger.Warnw("conversion failed, keeping raw value", "field", field, "panic", fmt.Sprintf("%v", r))
			result = value
		}
	}()
	return conv(value)
}
