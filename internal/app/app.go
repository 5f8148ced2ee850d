// Package app wires together the Conditions Store, Ingestion Engine,
// Scheduler, and Device API into one running process.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/surflamp/lampd/internal/deviceapi"
	"github.com/surflamp/lampd/internal/ingest"
	"github.com/surflamp/lampd/internal/log"
	"github.com/surflamp/lampd/internal/scheduler"
	"github.com/surflamp/lampd/internal/store"
	"github.com/surflamp/lampd/internal/sunset"
	"github.com/surflamp/lampd/internal/weatherclient"
	"github.com/surflamp/lampd/pkg/config"
)

// App owns every long-lived component's lifecycle: the store connection,
// the ingestion scheduler, and the device-facing HTTP server.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	st        *store.Store
	scheduler *scheduler.Scheduler
	deviceAPI *deviceapi.Controller
}

// New constructs an App from a loaded Config. It does not connect to
// anything yet; that happens in Run.
func New(cfg *config.Config, logger *zap.SugaredLogger) *App {
	return &App{cfg: cfg, logger: logger}
}

// Run opens the store, starts the scheduler and the device API, and
// blocks until SIGINT/SIGTERM or ctx is cancelled, then shuts everything
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := store.Open(a.cfg.Database.GetConnectionString(), log.GetZapLogger(), a.logger)
	if err != nil {
		return err
	}
	a.st = st

	apiKeys := map[string]string{
		"LAMPD_OPENWEATHERMAP_API_KEY": a.cfg.OpenWeatherMapAPIKey,
		"LAMPD_OPENMETEO_API_KEY":      a.cfg.OpenMeteoAPIKey,
	}

	client := weatherclient.New(nil, weatherclient.RealClock{}, a.logger, a.cfg.StrictWindUnitValidation)
	engine := ingest.New(st, client, apiKeys, a.logger)

	var wg sync.WaitGroup

	a.scheduler = scheduler.New(engine, a.cfg.SchedulerInterval, a.logger)
	wg.Add(1)
	go a.scheduler.Start(ctx, &wg)

	a.deviceAPI = deviceapi.New(st, sunset.Calculator(sunset.Calculate), a.cfg.QuietHoursStart, a.cfg.QuietHoursEnd, a.cfg.HTTPListenAddr, a.logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.deviceAPI.Start(ctx); err != nil {
			a.logger.Errorw("device api server error", "error", err)
		}
	}()

	log.Info("application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
