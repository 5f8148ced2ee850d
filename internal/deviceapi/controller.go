// Package deviceapi is the read-only HTTP surface Arduino surf lamps
// poll for their display data.
package deviceapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/surflamp/lampd/internal/store"
	"github.com/surflamp/lampd/internal/sunset"
)

// Controller serves the device-facing HTTP API.
type Controller struct {
	store           store.ConditionsStore
	calculate       sunset.Calculator
	quietHoursStart int
	quietHoursEnd   int
	fmt             *formatter
	logger          *zap.SugaredLogger
	server          http.Server
}

// New builds a Controller listening on listenAddr. calculate selects
// which sunset.Calculator backend drives sunset_animation; pass
// sunset.Calculate for the default.
func New(st store.ConditionsStore, calculate sunset.Calculator, quietHoursStart, quietHoursEnd int, listenAddr string, logger *zap.SugaredLogger) *Controller {
	c := &Controller{
		store:           st,
		calculate:       calculate,
		quietHoursStart: quietHoursStart,
		quietHoursEnd:   quietHoursEnd,
		fmt:             newFormatter(),
		logger:          logger,
	}
	c.server.Addr = listenAddr
	c.server.ReadTimeout = 5 * time.Second
	c.server.WriteTimeout = 10 * time.Second
	c.server.Handler = handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(false),
		handlers.RecoveryLogger(recoveryLogger{logger}),
	)(c.setupRouter())
	return c
}

// Start runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (c *Controller) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		c.logger.Infow("device API listening", "addr", c.server.Addr)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		c.logger.Info("device API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return c.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.loggingMiddleware)

	router.HandleFunc("/api/arduino/{hardware_id}/data", c.handleData).Methods(http.MethodGet)
	router.HandleFunc("/api/arduino/{hardware_id}/status", c.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handleHealthz).Methods(http.MethodGet)

	return router
}

// loggingMiddleware logs every request's method, path, status,
// duration, and client IP.
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusCapturingWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(clientIP); err == nil {
			clientIP = host
		}

		c.logger.Infow("device api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
			"client_ip", clientIP,
		)
	})
}

type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusCapturingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// recoveryLogger adapts a *zap.SugaredLogger to gorilla/handlers'
// RecoveryHandlerLogger (Println) contract.
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (r recoveryLogger) Println(args ...interface{}) {
	r.logger.Errorw("recovered from panic in device api handler", "panic", fmt.Sprint(args...))
}

func parseHardwareID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["hardware_id"]
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid hardware_id %q: %w", raw, err)
	}
	return id, nil
}
