// Package constants holds small fixed values shared across packages that
// have no natural home in per-package configuration.
package constants

import "time"

const (
	// WeatherClientMaxAttempts bounds retries for a single provider call
	// (timeout retries and rate-limit backoff share this budget).
	WeatherClientMaxAttempts = 3

	// WeatherClientDefaultTimeout is the per-request timeout for every
	// provider except the OpenWeatherMap family.
	WeatherClientDefaultTimeout = 15 * time.Second

	// WeatherClientOpenWeatherMapTimeout is the longer per-request budget
	// OpenWeatherMap's historically slower responses need.
	WeatherClientOpenWeatherMapTimeout = 30 * time.Second

	// WeatherClientTimeoutRetryDelay is the fixed pause between a timed-out
	// request and its retry.
	WeatherClientTimeoutRetryDelay = 30 * time.Second

	// WeatherClientBackoffBase is the base of the exponential backoff delay
	// applied on a 429 response (base * 2^(attempt-1)).
	WeatherClientBackoffBase = 60 * time.Second

	// WeatherClientPostCallPacingDelay is the pause after every successful
	// provider call, keeping per-location request rates polite regardless
	// of how many sources a location configures.
	WeatherClientPostCallPacingDelay = 30 * time.Second

	// MpsToKnots converts meters per second to knots (1 m/s = 1.943844 kn),
	// used only at the Device API boundary to compare a stored m/s reading
	// against a user's knots-denominated threshold.
	MpsToKnots = 1.943844
)
