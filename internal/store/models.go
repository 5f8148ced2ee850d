// Package store is the Conditions Store: GORM models and operations
// over the shared Postgres schema. The schema is owned jointly with an
// external web UI; this package never migrates it and only ever touches
// the columns the backend needs.
package store

import "time"

// User mirrors the shared users table. Only the columns the core reads
// are modeled; the web UI owns columns like password_hash that the core
// never touches.
type User struct {
	UserID              int        `gorm:"column:user_id;primaryKey"`
	Username            string     `gorm:"column:username"`
	Location            string     `gorm:"column:location"`
	Theme               string     `gorm:"column:theme"`
	WaveThresholdM      float64    `gorm:"column:wave_threshold_m"`
	WaveThresholdMaxM   *float64   `gorm:"column:wave_threshold_max_m"`
	WindThresholdKnots  float64    `gorm:"column:wind_threshold_knots"`
	WindThresholdMaxKts *float64   `gorm:"column:wind_threshold_max_knots"`
	OffTimesEnabled     bool       `gorm:"column:off_times_enabled"`
	OffTimeStart        *time.Time `gorm:"column:off_time_start"`
	OffTimeEnd          *time.Time `gorm:"column:off_time_end"`
}

// TableName specifies the table name for User.
func (User) TableName() string { return "users" }

// Device mirrors the shared devices table ("arduinos" in the original
// system). hardware_id is the device's external identity; device_id is
// its internal primary key, and user_id the foreign key to its User.
type Device struct {
	DeviceID     int       `gorm:"column:device_id;primaryKey"`
	UserID       int       `gorm:"column:user_id"`
	HardwareID   int       `gorm:"column:hardware_id;uniqueIndex"`
	LastPollTime time.Time `gorm:"column:last_poll_time"`
}

// TableName specifies the table name for Device.
func (Device) TableName() string { return "devices" }

// ConditionsRecord mirrors the shared conditions table, one row per
// registry location. All sensor fields are nullable: a null field means
// "no provider has supplied this value yet", not a measured zero.
type ConditionsRecord struct {
	Location         string    `gorm:"column:location;primaryKey"`
	WaveHeightM      *float64  `gorm:"column:wave_height_m"`
	WavePeriodS      *float64  `gorm:"column:wave_period_s"`
	WindSpeedMps     *float64  `gorm:"column:wind_speed_mps"`
	WindDirectionDeg *float64  `gorm:"column:wind_direction_deg"`
	LastUpdated      time.Time `gorm:"column:last_updated"`
}

// TableName specifies the table name for ConditionsRecord.
func (ConditionsRecord) TableName() string { return "conditions" }
