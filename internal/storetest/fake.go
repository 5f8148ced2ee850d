// Package storetest provides an in-memory fake of store.ConditionsStore
// for testing the Ingestion Engine and Device API without a live Postgres
// connection.
package storetest

import (
	"fmt"
	"time"

	"github.com/surflamp/lampd/internal/store"
)

// Fake is a minimal in-memory implementation of store.ConditionsStore.
type Fake struct {
	Users       map[int]store.User                // keyed by UserID
	Devices     map[int]store.Device              // keyed by HardwareID
	Conditions  map[string]store.ConditionsRecord // keyed by Location
	PingErr     error
	PingCalls   int
	TouchedDevs []int
}

// NewFake returns an empty Fake ready for population in a test.
func NewFake() *Fake {
	return &Fake{
		Users:      map[int]store.User{},
		Devices:    map[int]store.Device{},
		Conditions: map[string]store.ConditionsRecord{},
	}
}

func (f *Fake) Ping() error {
	f.PingCalls++
	return f.PingErr
}

func (f *Fake) DistinctActiveLocations() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, u := range f.Users {
		if !seen[u.Location] {
			seen[u.Location] = true
			out = append(out, u.Location)
		}
	}
	return out, nil
}

func (f *Fake) LoadUserDeviceAndConditions(hardwareID int) (store.User, store.Device, *store.ConditionsRecord, bool, error) {
	device, ok := f.Devices[hardwareID]
	if !ok {
		return store.User{}, store.Device{}, nil, false, nil
	}
	user, ok := f.Users[device.UserID]
	if !ok {
		return store.User{}, store.Device{}, nil, false, nil
	}
	if cond, ok := f.Conditions[user.Location]; ok {
		return user, device, &cond, true, nil
	}
	return user, device, nil, true, nil
}

func (f *Fake) UpsertConditions(location string, fields map[string]float64) error {
	rec := store.ConditionsRecord{Location: location, LastUpdated: time.Now().UTC()}
	if v, ok := fields["wave_height_m"]; ok {
		rec.WaveHeightM = &v
	}
	if v, ok := fields["wave_period_s"]; ok {
		rec.WavePeriodS = &v
	}
	if v, ok := fields["wind_speed_mps"]; ok {
		rec.WindSpeedMps = &v
	}
	if v, ok := fields["wind_direction_deg"]; ok {
		rec.WindDirectionDeg = &v
	}
	f.Conditions[location] = rec
	return nil
}

func (f *Fake) TouchDevice(deviceID int) error {
	f.TouchedDevs = append(f.TouchedDevs, deviceID)
	return nil
}

// MustAddUser is a test-setup helper; it panics on a duplicate UserID.
func (f *Fake) MustAddUser(u store.User) {
	if _, exists := f.Users[u.UserID]; exists {
		panic(fmt.Sprintf("duplicate user id %d", u.UserID))
	}
	f.Users[u.UserID] = u
}

// MustAddDevice is a test-setup helper; it panics on a duplicate HardwareID.
func (f *Fake) MustAddDevice(d store.Device) {
	if _, exists := f.Devices[d.HardwareID]; exists {
		panic(fmt.Sprintf("duplicate hardware id %d", d.HardwareID))
	}
	f.Devices[d.HardwareID] = d
}

var _ store.ConditionsStore = (*Fake)(nil)
