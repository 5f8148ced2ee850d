package deviceapi

import (
	"math"
	"net/http"
	"time"
)

const epoch1970 = "1970-01-01T00:00:00Z"

// handleData serves GET /api/arduino/{hardware_id}/data: the display
// payload a surf lamp polls on each wake cycle. Rounding, truncation,
// and the zero-conditions branch are all part of the device contract:
// firmware parses a fixed schema and never handles nulls.
func (c *Controller) handleData(w http.ResponseWriter, r *http.Request) {
	hardwareID, err := parseHardwareID(r)
	if err != nil {
		c.fmt.write(w, r, http.StatusBadRequest, map[string]string{"error": "invalid hardware_id"})
		return
	}

	user, device, conditions, found, err := c.store.LoadUserDeviceAndConditions(hardwareID)
	if err != nil {
		c.logger.Errorw("failed to load device data", "hardware_id", hardwareID, "error", err)
		c.fmt.write(w, r, http.StatusInternalServerError, map[string]string{"error": "server error"})
		return
	}
	if !found {
		c.fmt.write(w, r, http.StatusNotFound, map[string]string{"error": "device not found"})
		return
	}

	now := time.Now()
	quiet := quietHoursActive(user.Location, now, c.quietHoursStart, c.quietHoursEnd)
	off := offHoursActive(user, now)

	sunsetResult := c.calculate(user.Location, now, 15*time.Minute)

	theme := user.Theme
	if theme == "" {
		theme = "day"
	}

	waveThresholdM := user.WaveThresholdM
	if waveThresholdM == 0 {
		waveThresholdM = 1.0
	}
	windThresholdKnots := user.WindThresholdKnots
	if windThresholdKnots == 0 {
		windThresholdKnots = 22.0
	}

	// The range-to-single-threshold shim runs here, at the device
	// boundary, against the just-loaded observed values. It is never
	// applied at ingestion time and never written back to the user's
	// stored settings.
	effWaveThresholdM := effectiveThreshold(observedWaveHeightM(conditions), waveThresholdM, user.WaveThresholdMaxM)
	effWindThresholdKnots := effectiveThreshold(observedWindSpeedKnots(conditions), windThresholdKnots, user.WindThresholdMaxKts)

	resp := DataResponse{
		WaveThresholdCm:         int(math.Round(effWaveThresholdM * 100)),
		WindSpeedThresholdKnots: int(math.Round(effWindThresholdKnots)),
		LEDTheme:                theme,
		QuietHoursActive:        quiet,
		OffHoursActive:          off,
		SunsetAnimation:         sunsetResult.SunsetTrigger,
		DayOfYear:               sunsetResult.DayOfYear,
	}

	if conditions == nil {
		resp.LastUpdated = epoch1970
		resp.DataAvailable = false
	} else {
		resp.WaveHeightCm = int(math.Round(derefOr(conditions.WaveHeightM, 0) * 100))
		resp.WavePeriodS = derefOr(conditions.WavePeriodS, 0)
		resp.WindSpeedMps = int(math.Round(derefOr(conditions.WindSpeedMps, 0)))
		resp.WindDirectionDeg = int(derefOr(conditions.WindDirectionDeg, 0))
		resp.DataAvailable = true
		if conditions.LastUpdated.IsZero() {
			resp.LastUpdated = epoch1970
		} else {
			resp.LastUpdated = conditions.LastUpdated.UTC().Format(time.RFC3339)
		}
	}

	// Best-effort poll timestamp; a failure here must never block the
	// device from getting its display data.
	if err := c.store.TouchDevice(device.DeviceID); err != nil {
		c.logger.Warnw("failed to touch device", "device_id", device.DeviceID, "error", err)
	}

	if err := c.fmt.write(w, r, http.StatusOK, resp); err != nil {
		c.logger.Errorw("failed to write device data response", "hardware_id", hardwareID, "error", err)
	}
}

// handleStatus serves GET /api/arduino/{hardware_id}/status: a
// lightweight registration/last-poll check field technicians use to
// confirm a device has ever successfully polled, keyed the same way
// handleData is.
func (c *Controller) handleStatus(w http.ResponseWriter, r *http.Request) {
	hardwareID, err := parseHardwareID(r)
	if err != nil {
		c.fmt.write(w, r, http.StatusBadRequest, map[string]string{"error": "invalid hardware_id"})
		return
	}

	_, device, _, found, err := c.store.LoadUserDeviceAndConditions(hardwareID)
	if err != nil {
		c.logger.Errorw("failed to load device status", "hardware_id", hardwareID, "error", err)
		c.fmt.write(w, r, http.StatusInternalServerError, map[string]string{"error": "server error"})
		return
	}
	if !found {
		c.fmt.write(w, r, http.StatusNotFound, StatusResponse{HardwareID: hardwareID, Registered: false})
		return
	}

	var lastPoll *string
	if !device.LastPollTime.IsZero() {
		s := device.LastPollTime.UTC().Format(time.RFC3339)
		lastPoll = &s
	}

	c.fmt.write(w, r, http.StatusOK, StatusResponse{
		HardwareID:   hardwareID,
		Registered:   true,
		LastPollTime: lastPoll,
	})
}

// handleHealthz is a liveness probe only; it never touches the store,
// so it stays green even during a database outage.
func (c *Controller) handleHealthz(w http.ResponseWriter, r *http.Request) {
	c.fmt.write(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

func derefOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
