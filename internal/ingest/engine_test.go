package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/surflamp/lampd/internal/locations"
	"github.com/surflamp/lampd/internal/store"
	"github.com/surflamp/lampd/internal/storetest"
	"github.com/surflamp/lampd/internal/weatherclient"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// noSleepClock satisfies weatherclient.Clock without ever actually
// sleeping, so these tests don't pay the client's real pacing/backoff
// delays.
type noSleepClock struct{ now time.Time }

func (c noSleepClock) Now() time.Time    { return c.now }
func (noSleepClock) Sleep(time.Duration) {}

func newTestClient() *weatherclient.Client {
	return weatherclient.New(nil, noSleepClock{now: time.Now()}, testLogger(), true)
}

// isramarThenForecast returns a two-source location: priority 1 Isramar
// (custom extractor, wave fields) and priority 2 Open-Meteo forecast
// (wind fields), backed by two httptest servers. The query-string markers
// match providers.ResolveKind's substring dispatch exactly as
// client_test.go does.
func isramarThenForecast(t *testing.T, isramarBody, forecastBody string) locations.Location {
	t.Helper()
	isramarSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(isramarBody))
	}))
	t.Cleanup(isramarSrv.Close)

	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastBody))
	}))
	t.Cleanup(forecastSrv.Close)

	return locations.Location{
		Name:      "Hadera, Israel",
		Timezone:  "Asia/Jerusalem",
		Latitude:  32.4365,
		Longitude: 34.9196,
		Sources: []locations.Source{
			{URL: isramarSrv.URL + "?isramar.ocean.org.il=1", Priority: 1},
			{URL: forecastSrv.URL + "?api.open-meteo.com=1&wind_speed_10m=1&wind_speed_unit=ms", Priority: 2},
		},
	}
}

func TestProcessLocationMergesFirstWriterWins(t *testing.T) {
	loc := isramarThenForecast(t,
		`{"parameters":[{"name":"Significant wave height","values":[0.65]},{"name":"Peak wave period","values":[5.0]}]}`,
		`{"hourly":{"time":[`+"\""+time.Now().UTC().Truncate(time.Hour).Format("2006-01-02T15:04")+"\""+`],"wind_speed_10m":[7.5],"wind_direction_10m":[315]}}`,
	)

	client := newTestClient()
	st := storetest.NewFake()

	e := New(st, client, nil, testLogger())
	calls, wrote, err := e.processLocation(context.Background(), testLogger(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Fatal("expected the merged record to be written")
	}
	if calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", calls)
	}

	rec, ok := st.Conditions["Hadera, Israel"]
	if !ok {
		t.Fatal("expected a persisted conditions record")
	}
	if rec.WaveHeightM == nil || *rec.WaveHeightM != 0.65 {
		t.Errorf("wave_height_m = %v, want 0.65", rec.WaveHeightM)
	}
	if rec.WindSpeedMps == nil || *rec.WindSpeedMps != 7.5 {
		t.Errorf("wind_speed_mps = %v, want 7.5", rec.WindSpeedMps)
	}
}

func TestProcessLocationPriorityWinsOnOverlap(t *testing.T) {
	// Both sources report wave_height: Isramar's custom extractor
	// (priority 1) and an Open-Meteo marine source (priority 2);
	// priority 1's value must survive.
	isramarSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"parameters":[{"name":"Significant wave height","values":[0.65]}]}`))
	}))
	t.Cleanup(isramarSrv.Close)

	marineSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"time":["` + time.Now().UTC().Truncate(time.Hour).Format("2006-01-02T15:04") + `"],"wave_height":[9.9]}}`))
	}))
	t.Cleanup(marineSrv.Close)

	loc := locations.Location{
		Name: "Hadera, Israel",
		Sources: []locations.Source{
			{URL: isramarSrv.URL + "?isramar.ocean.org.il=1", Priority: 1},
			{URL: marineSrv.URL + "?marine-api.open-meteo.com=1", Priority: 2},
		},
	}

	client := newTestClient()
	st := storetest.NewFake()
	e := New(st, client, nil, testLogger())

	if _, _, err := e.processLocation(context.Background(), testLogger(), loc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := st.Conditions["Hadera, Israel"]
	if rec.WaveHeightM == nil || *rec.WaveHeightM != 0.65 {
		t.Errorf("wave_height_m = %v, want priority-1 value 0.65", rec.WaveHeightM)
	}
}

func TestProcessLocationAppliesZeroFallbackOnPartialSuccess(t *testing.T) {
	// Priority 1 fails outright; priority 2 succeeds with wind only. The
	// record is still written, with wave fields at their zero fallback.
	failingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failingSrv.Close)

	forecastSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"time":["` + time.Now().UTC().Truncate(time.Hour).Format("2006-01-02T15:04") + `"],"wind_speed_10m":[7.5],"wind_direction_10m":[315]}}`))
	}))
	t.Cleanup(forecastSrv.Close)

	loc := locations.Location{
		Name: "Hadera, Israel",
		Sources: []locations.Source{
			{URL: failingSrv.URL + "?isramar.ocean.org.il=1", Priority: 1},
			{URL: forecastSrv.URL + "?api.open-meteo.com=1&wind_speed_10m=1&wind_speed_unit=ms", Priority: 2},
		},
	}

	client := newTestClient()
	st := storetest.NewFake()
	e := New(st, client, nil, testLogger())

	_, wrote, err := e.processLocation(context.Background(), testLogger(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Fatal("expected a partial success to still write a record")
	}

	rec := st.Conditions["Hadera, Israel"]
	if rec.WindSpeedMps == nil || *rec.WindSpeedMps != 7.5 {
		t.Errorf("wind_speed_mps = %v, want 7.5", rec.WindSpeedMps)
	}
	if rec.WaveHeightM == nil || *rec.WaveHeightM != 0.0 {
		t.Errorf("expected zero fallback for wave_height_m, got %v", rec.WaveHeightM)
	}
}

func TestProcessLocationSkipsWriteWhenNoProviderSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	loc := locations.Location{
		Name: "Hadera, Israel",
		Sources: []locations.Source{
			{URL: srv.URL + "?isramar.ocean.org.il=1", Priority: 1},
		},
	}

	client := newTestClient()
	st := storetest.NewFake()
	prior := 0.8
	st.Conditions["Hadera, Israel"] = store.ConditionsRecord{Location: "Hadera, Israel", WaveHeightM: &prior}
	e := New(st, client, nil, testLogger())

	_, wrote, err := e.processLocation(context.Background(), testLogger(), loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote {
		t.Error("expected no write when every provider failed")
	}

	rec := st.Conditions["Hadera, Israel"]
	if rec.WaveHeightM == nil || *rec.WaveHeightM != 0.8 {
		t.Errorf("expected the previous record to survive a fully failed cycle, got %v", rec.WaveHeightM)
	}
}

func TestRunCycleAbortsWhenStoreUnreachable(t *testing.T) {
	st := storetest.NewFake()
	st.PingErr = context.DeadlineExceeded

	e := New(st, newTestClient(), nil, testLogger())
	_, err := e.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected an error when the store is unreachable")
	}
}

func TestRunCycleSkipsUnknownLocations(t *testing.T) {
	st := storetest.NewFake()
	st.MustAddUser(store.User{UserID: 1, Location: "Nowhere, Atlantis"})

	e := New(st, newTestClient(), nil, testLogger())
	summary, err := e.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.LocationsUnknown) != 1 || summary.LocationsUnknown[0] != "Nowhere, Atlantis" {
		t.Errorf("expected Nowhere, Atlantis flagged unknown, got %v", summary.LocationsUnknown)
	}
	if summary.LocationsActive != 0 {
		t.Errorf("expected 0 active locations, got %d", summary.LocationsActive)
	}
}
