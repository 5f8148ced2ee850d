// Package weatherclient fetches and normalizes conditions from a single
// external provider URL, applying the retry/backoff/pacing policy every
// provider in this system is subject to.
package weatherclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/surflamp/lampd/internal/constants"
	"github.com/surflamp/lampd/internal/providers"
	"go.uber.org/zap"
)

const userAgent = "SurfLamp-Agent/1.0"

// Client fetches and normalizes a single provider URL per call.
type Client struct {
	httpClient     *http.Client
	clock          Clock
	logger         *zap.SugaredLogger
	strictWindUnit bool
}

// New creates a Client. httpClient may be nil, in which case a default
// client is used; the per-call timeout from constants is applied per
// request through its context, in addition to any Timeout already set
// on httpClient (whichever is shorter ends the request).
// strictWindUnit controls whether validateWindUnit rejects an
// Open-Meteo wind_speed_10m URL missing wind_speed_unit=ms; pass true
// unless a caller has explicitly configured otherwise.
func New(httpClient *http.Client, clock Clock, logger *zap.SugaredLogger, strictWindUnit bool) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Client{httpClient: httpClient, clock: clock, logger: logger, strictWindUnit: strictWindUnit}
}

// Get fetches url (with an optional bearer token), validates, retries,
// and normalizes the response via the Transformer. It never returns an
// error to the caller for anything recoverable: non-retriable failures,
// exhausted retries, and configuration errors all result in (nil, nil)
// so a failing provider never fails its location. A non-nil error is
// returned only for a cancelled context, not a provider failure.
func (c *Client) Get(ctx context.Context, url, bearerToken string) (map[string]float64, error) {
	if c.strictWindUnit {
		if err := validateWindUnit(url); err != nil {
			c.logger.Errorw("configuration error, skipping provider", "url", url, "error", err)
			return nil, nil
		}
	}

	timeout := providerTimeout(url)
	maxAttempts := constants.WeatherClientMaxAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, status, err := c.doRequest(ctx, url, bearerToken, timeout)
		if err == nil && status == http.StatusOK {
			c.clock.Sleep(constants.WeatherClientPostCallPacingDelay)
			out, _ := providers.Transform(doc, url, c.clock.Now(), c.logger)
			return out, nil
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt == maxAttempts {
				c.logger.Errorw("provider request timed out, exhausted retries", "url", url, "attempt", attempt)
				return nil, nil
			}
			c.logger.Warnw("provider request timed out, retrying", "url", url, "attempt", attempt)
			c.clock.Sleep(constants.WeatherClientTimeoutRetryDelay)
			continue
		}

		if status == http.StatusTooManyRequests {
			if attempt == maxAttempts {
				c.logger.Errorw("provider rate-limited, exhausted retries", "url", url, "attempt", attempt)
				return nil, nil
			}
			delay := constants.WeatherClientBackoffBase * time.Duration(1<<uint(attempt-1))
			c.logger.Warnw("provider rate-limited, backing off", "url", url, "attempt", attempt, "delay", delay)
			c.clock.Sleep(delay)
			continue
		}

		// Any other non-2xx status is non-retriable.
		c.logger.Errorw("provider returned non-retriable status", "url", url, "status", status)
		return nil, nil
	}

	return nil, nil
}

func (c *Client) doRequest(ctx context.Context, url, bearerToken string, timeout time.Duration) (map[string]any, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	if strings.TrimSpace(bearerToken) != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, resp.StatusCode, err
	}
	return doc, resp.StatusCode, nil
}

// providerTimeout returns the per-provider request timeout: the
// OpenWeatherMap family gets a longer budget than every other provider.
func providerTimeout(url string) time.Duration {
	if strings.Contains(url, "openweathermap.org") {
		return constants.WeatherClientOpenWeatherMapTimeout
	}
	return constants.WeatherClientDefaultTimeout
}

// validateWindUnit enforces the mandatory wind_speed_unit=ms parameter on
// Open-Meteo forecast URLs requesting wind_speed_10m, when strict mode is
// on. Open-Meteo's default unit is km/h, which would silently corrupt
// every downstream m/s calculation if this guard were skipped.
func validateWindUnit(url string) error {
	if strings.Contains(url, "wind_speed_10m") && strings.Contains(url, "open-meteo.com") {
		if !strings.Contains(url, "wind_speed_unit=ms") {
			return fmt.Errorf("open-meteo wind_speed_10m URL missing required wind_speed_unit=ms parameter")
		}
	}
	return nil
}
