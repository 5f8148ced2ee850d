// Package ingest is the Ingestion Engine: one cycle fetches every active
// location's provider sources in priority order, merges fields
// first-writer-wins, applies zero fallbacks, and upserts one
// ConditionsRecord per location.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/surflamp/lampd/internal/locations"
	"github.com/surflamp/lampd/internal/providers"
	"github.com/surflamp/lampd/internal/store"
	"github.com/surflamp/lampd/internal/weatherclient"
	"go.uber.org/zap"
)

// conditionsFields is the subset of canonical fields the conditions
// table actually persists; wave_direction_deg and temperature_c are
// extracted by some recipes but have no column.
var conditionsFields = []string{
	providers.FieldWaveHeightM,
	providers.FieldWavePeriodS,
	providers.FieldWindSpeedMPS,
	providers.FieldWindDirection,
}

// Engine runs ingestion cycles.
type Engine struct {
	store       store.ConditionsStore
	client      *weatherclient.Client
	apiKeys     map[string]string // env var name -> secret value
	concurrency int
	logger      *zap.SugaredLogger
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithConcurrency bounds the number of locations processed in parallel.
// The default is 4.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine. apiKeys maps an env var name (as named in a
// locations.Source.APIKeyEnv) to its secret value.
func New(st store.ConditionsStore, client *weatherclient.Client, apiKeys map[string]string, logger *zap.SugaredLogger, opts ...Option) *Engine {
	e := &Engine{
		store:       st,
		client:      client,
		apiKeys:     apiKeys,
		concurrency: 4,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary reports what one cycle did, for logging and tests.
type Summary struct {
	CorrelationID    string
	LocationsActive  int
	LocationsUnknown []string
	APICalls         int
	LocationsUpdated int
	LocationsSkipped int
	LocationsFailed  int
}

// RunCycle executes one ingestion pass over every active location. It
// never returns an error for a per-location or per-provider failure;
// only a store-reachability failure or a failure to list active
// locations aborts the cycle outright.
func (e *Engine) RunCycle(ctx context.Context) (Summary, error) {
	correlationID := uuid.New().String()
	log := e.logger.With("cycle_id", correlationID)
	log.Info("starting ingestion cycle")

	if err := e.store.Ping(); err != nil {
		log.Errorw("store unreachable, aborting cycle", "error", err)
		return Summary{CorrelationID: correlationID}, fmt.Errorf("store unreachable: %w", err)
	}

	activeLocationNames, err := e.store.DistinctActiveLocations()
	if err != nil {
		log.Errorw("failed to list active locations, aborting cycle", "error", err)
		return Summary{CorrelationID: correlationID}, fmt.Errorf("listing active locations: %w", err)
	}

	known, unknown := locations.Active(activeLocationNames)
	for _, name := range unknown {
		log.Warnw("active user location not in registry, skipping", "location", name)
	}

	summary := Summary{
		CorrelationID:    correlationID,
		LocationsActive:  len(known),
		LocationsUnknown: unknown,
	}

	var apiCalls atomicCounter
	var updated atomicCounter
	var skipped atomicCounter
	var failed atomicCounter

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, loc := range known {
		loc := loc
		g.Go(func() error {
			calls, wrote, err := e.processLocation(gctx, log, loc)
			apiCalls.add(calls)
			switch {
			case err != nil:
				failed.add(1)
				log.Errorw("location update failed", "location", loc.Name, "error", err)
			case !wrote:
				skipped.add(1)
			default:
				updated.add(1)
			}
			return nil // per-location failure never aborts the cycle
		})
	}
	_ = g.Wait() // no goroutine returns a non-nil error; this never fails the cycle

	summary.APICalls = apiCalls.value()
	summary.LocationsUpdated = updated.value()
	summary.LocationsSkipped = skipped.value()
	summary.LocationsFailed = failed.value()

	log.Infow("ingestion cycle complete",
		"locations_active", summary.LocationsActive,
		"locations_updated", summary.LocationsUpdated,
		"locations_skipped", summary.LocationsSkipped,
		"locations_failed", summary.LocationsFailed,
		"api_calls", summary.APICalls,
	)

	return summary, nil
}

// processLocation fetches every source for loc in priority order, merges
// first-writer-wins, and upserts the result. It returns the number of
// provider sources called (one per source, whatever the number of HTTP
// attempts inside the client) and whether a record was written; an empty
// accumulator is skipped without touching the store, so a cycle where
// every provider fails leaves the previous record intact.
func (e *Engine) processLocation(ctx context.Context, log *zap.SugaredLogger, loc locations.Location) (int, bool, error) {
	combined := map[string]float64{}
	calls := 0

	for _, src := range locations.OrderedSources(loc) {
		calls++
		bearer := ""
		if src.APIKeyEnv != "" {
			bearer = e.apiKeys[src.APIKeyEnv]
		}

		fields, err := e.client.Get(ctx, src.URL, bearer)
		if err != nil {
			log.Errorw("provider call errored", "location", loc.Name, "url", src.URL, "error", err)
			continue
		}
		if fields == nil {
			log.Debugw("provider contributed no data", "location", loc.Name, "url", src.URL, "priority", src.Priority)
			continue
		}

		for field, value := range fields {
			if _, exists := combined[field]; !exists {
				combined[field] = value
			}
		}
	}

	if len(combined) == 0 {
		log.Warnw("no provider produced data for location, skipping write", "location", loc.Name)
		return calls, false, nil
	}

	persisted := make(map[string]float64, len(conditionsFields))
	for _, field := range conditionsFields {
		if v, ok := combined[field]; ok {
			persisted[field] = v
		} else {
			persisted[field] = providers.ZeroFallbacks[field]
		}
	}

	if err := e.store.UpsertConditions(loc.Name, persisted); err != nil {
		return calls, false, fmt.Errorf("upserting conditions for %q: %w", loc.Name, err)
	}
	return calls, true, nil
}

// atomicCounter avoids importing sync/atomic's typed counters for a
// handful of cross-goroutine increments; a mutex is simpler to read here
// than int64 atomics for counts this small.
type atomicCounter struct {
	mu sync.Mutex
	n  int
}

func (c *atomicCounter) add(n int) {
	c.mu.Lock()
	c.n += n
	c.mu.Unlock()
}

func (c *atomicCounter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
