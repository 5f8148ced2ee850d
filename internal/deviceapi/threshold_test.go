package deviceapi

import "testing"

func f(v float64) *float64 { return &v }

func TestEffectiveThreshold(t *testing.T) {
	cases := []struct {
		name    string
		current *float64
		min     float64
		max     *float64
		want    float64
	}{
		{"no max, traditional mode", f(2.5), 1.0, nil, 1.0},
		{"within range", f(2.0), 1.0, f(3.0), 1.0},
		{"below min", f(0.5), 1.0, f(3.0), 1.0},
		{"above max disables alert", f(4.0), 1.0, f(3.0), impossibleThreshold},
		{"no current value fails safe", nil, 1.0, f(3.0), 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := effectiveThreshold(tc.current, tc.min, tc.max)
			if got != tc.want {
				t.Errorf("effectiveThreshold(%v, %v, %v) = %v, want %v", tc.current, tc.min, tc.max, got, tc.want)
			}
		})
	}
}
