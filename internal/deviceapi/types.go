package deviceapi

// DataResponse is the full device wire format for
// GET /api/arduino/{hardware_id}/data. All fields are always present;
// sensor fields are safe zeros when no ConditionsRecord exists.
type DataResponse struct {
	WaveHeightCm            int     `json:"wave_height_cm"`
	WavePeriodS             float64 `json:"wave_period_s"`
	WindSpeedMps            int     `json:"wind_speed_mps"`
	WindDirectionDeg        int     `json:"wind_direction_deg"`
	WaveThresholdCm         int     `json:"wave_threshold_cm"`
	WindSpeedThresholdKnots int     `json:"wind_speed_threshold_knots"`
	LEDTheme                string  `json:"led_theme"`
	QuietHoursActive        bool    `json:"quiet_hours_active"`
	OffHoursActive          bool    `json:"off_hours_active"`
	SunsetAnimation         bool    `json:"sunset_animation"`
	DayOfYear               int     `json:"day_of_year"`
	LastUpdated             string  `json:"last_updated"`
	DataAvailable           bool    `json:"data_available"`
}

// StatusResponse is the body of the read-only status endpoint.
type StatusResponse struct {
	HardwareID   int     `json:"hardware_id"`
	Registered   bool    `json:"registered"`
	LastPollTime *string `json:"last_poll_time"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}
