package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the shared Postgres connection. It never migrates the
// schema; the schema is stable and shared with the web UI.
type Store struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// Open connects to connectionString with a zap-backed GORM logger and
// modest connection pool tuning.
func Open(connectionString string, baseLogger *zap.Logger, sugared *zap.SugaredLogger) (*Store, error) {
	if connectionString == "" {
		return nil, errors.New("empty connection string")
	}

	gormLogger := logger.New(
		zap.NewStdLog(baseLogger),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("opening store connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieving underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Store{db: db, logger: sugared}, nil
}

// Ping verifies the store is reachable, used by the Ingestion Engine's
// pre-cycle reachability check.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DistinctActiveLocations returns every location currently named by at
// least one user's location column.
func (s *Store) DistinctActiveLocations() ([]string, error) {
	var locs []string
	if err := s.db.Model(&User{}).Distinct().Pluck("location", &locs).Error; err != nil {
		return nil, fmt.Errorf("listing distinct active locations: %w", err)
	}
	return locs, nil
}

// LoadUserDeviceAndConditions joins user, device, and the device
// location's conditions row, returning ok=false if the hardware id is
// unknown. conditions is nil when no row exists yet for the device's
// location.
func (s *Store) LoadUserDeviceAndConditions(hardwareID int) (user User, device Device, conditions *ConditionsRecord, ok bool, err error) {
	if err = s.db.Where("hardware_id = ?", hardwareID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, Device{}, nil, false, nil
		}
		return User{}, Device{}, nil, false, fmt.Errorf("loading device %d: %w", hardwareID, err)
	}

	if err = s.db.Where("user_id = ?", device.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, Device{}, nil, false, nil
		}
		return User{}, Device{}, nil, false, fmt.Errorf("loading user %d: %w", device.UserID, err)
	}

	var cond ConditionsRecord
	condErr := s.db.Where("location = ?", user.Location).First(&cond).Error
	switch {
	case condErr == nil:
		conditions = &cond
	case errors.Is(condErr, gorm.ErrRecordNotFound):
		conditions = nil
	default:
		return User{}, Device{}, nil, false, fmt.Errorf("loading conditions for %q: %w", user.Location, condErr)
	}

	return user, device, conditions, true, nil
}

// UpsertConditions inserts or updates the ConditionsRecord for
// location inside a transaction scoped to that single location. Fields
// absent from the merged map are written as null; fallbacks are applied
// upstream in the Ingestion Engine, never here.
func (s *Store) UpsertConditions(location string, fields map[string]float64) error {
	rec := ConditionsRecord{Location: location, LastUpdated: time.Now().UTC()}
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

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing ConditionsRecord
		err := tx.Where("location = ?", location).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("inserting conditions for %q: %w", location, err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("loading existing conditions for %q: %w", location, err)
		default:
			if err := tx.Model(&ConditionsRecord{}).Where("location = ?", location).Updates(map[string]any{
				"wave_height_m":      rec.WaveHeightM,
				"wave_period_s":      rec.WavePeriodS,
				"wind_speed_mps":     rec.WindSpeedMps,
				"wind_direction_deg": rec.WindDirectionDeg,
				"last_updated":       rec.LastUpdated,
			}).Error; err != nil {
				return fmt.Errorf("updating conditions for %q: %w", location, err)
			}
			return nil
		}
	})
}

// TouchDevice updates last_poll_time for a single device. Best-effort:
// callers log and continue on error rather than failing the request.
func (s *Store) TouchDevice(deviceID int) error {
	return s.db.Model(&Device{}).Where("device_id = ?", deviceID).
		Update("last_poll_time", time.Now().UTC()).Error
}

// BatchTouchDevices updates last_poll_time for every device in
// deviceIDs in one statement (UPDATE ... WHERE device_id = ANY($2)),
// for callers reconciling many devices at once rather than one per
// request.
func (s *Store) BatchTouchDevices(deviceIDs []int) error {
	if len(deviceIDs) == 0 {
		return nil
	}
	return s.db.Exec(
		"UPDATE devices SET last_poll_time = ? WHERE device_id = ANY(?)",
		time.Now().UTC(), pq.Array(deviceIDs),
	).Error
}
