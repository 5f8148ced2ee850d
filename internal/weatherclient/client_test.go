package weatherclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeClock struct {
	now   time.Time
	sleep time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }
func (f *fakeClock) Sleep(d time.Duration) {
	f.sleep += d
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestClientGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"wind":{"speed":7.5,"deg":315}}`))
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(nil, clock, testLogger(), true)

	out, err := c.Get(context.Background(), srv.URL+"?openweathermap.org=1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The recipe resolves on the presence of the substring
	// "openweathermap.org" anywhere in the URL, including the query
	// string used here to simulate a real host.
	if out == nil {
		t.Fatal("expected a non-nil result")
	}
	if clock.sleep != 30*time.Second {
		t.Errorf("expected 30s pacing sleep, got %v", clock.sleep)
	}
}

func TestClientGetRetriesOn429ThenGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Now()}
	c := New(nil, clock, testLogger(), true)

	out, err := c.Get(context.Background(), srv.URL+"?marine-api.open-meteo.com=1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Error("expected nil result after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if clock.sleep != 60*time.Second+120*time.Second {
		t.Errorf("expected 60s+120s backoff sleep, got %v", clock.sleep)
	}
}

func TestClientGetNonRetriableStatusStopsImmediately(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Now()}
	c := New(nil, clock, testLogger(), true)

	out, err := c.Get(context.Background(), srv.URL+"?marine-api.open-meteo.com=1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Error("expected nil result")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 attempt for a non-retriable status, got %d", calls)
	}
}

func TestClientGetRejectsOpenMeteoMissingWindUnit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Now()}
	c := New(nil, clock, testLogger(), true)

	url := "https://api.open-meteo.com/v1/forecast?hourly=wind_speed_10m"
	out, err := c.Get(context.Background(), url, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Error("expected nil result for configuration error")
	}
	if called {
		t.Error("no HTTP request should have been issued")
	}
	_ = srv // server unused on purpose: the guard must prevent any dial
}

func TestClientGetNonStrictAllowsMissingWindUnit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"time":["2025-01-01T00:00"],"wind_speed_10m":[7.5]}}`))
	}))
	defer srv.Close()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(nil, clock, testLogger(), false)

	url := srv.URL + "?api.open-meteo.com=1&wind_speed_10m=1&hourly=wind_speed_10m"
	out, err := c.Get(context.Background(), url, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == nil {
		t.Fatal("expected a non-strict request missing wind_speed_unit=ms to still be issued")
	}
}
