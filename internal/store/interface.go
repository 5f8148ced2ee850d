package store

// ConditionsStore is the subset of Store the Ingestion Engine and Device
// API depend on. Declaring it lets both be tested against an in-memory
// fake instead of a live Postgres connection.
type ConditionsStore interface {
	Ping() error
	DistinctActiveLocations() ([]string, error)
	LoadUserDeviceAndConditions(hardwareID int) (User, Device, *ConditionsRecord, bool, error)
	UpsertConditions(location string, fields map[string]float64) error
	TouchDevice(deviceID int) error
}

var _ ConditionsStore = (*Store)(nil)
