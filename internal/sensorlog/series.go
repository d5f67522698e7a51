package sensorlog

// Triad holds three timestamp-aligned axis series of one sensor modality.
type Triad struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// SensorSeries holds the demultiplexed time series of one IMU. Within a
// file all six arrays across all IMUs share the same length, equal to
// the number of accepted data rows. Once returned by the demultiplexer
// the series is an immutable snapshot; consumers never mutate it.
type SensorSeries struct {
	Acceleration Triad `json:"acceleration"`
	Gyroscope    Triad `json:"gyroscope"`
}

// appendZero grows all six arrays by one zero element, keeping them in
// lock-step with the timestamps array. A value missing from a short row
// stays zero; the lossy fill keeps array-length parity and is not an
// error state.
func (s *SensorSeries) appendZero() {
	s.Acceleration.X = append(s.Acceleration.X, 0)
	s.Acceleration.Y = append(s.Acceleration.Y, 0)
	s.Acceleration.Z = append(s.Acceleration.Z, 0)
	s.Gyroscope.X = append(s.Gyroscope.X, 0)
	s.Gyroscope.Y = append(s.Gyroscope.Y, 0)
	s.Gyroscope.Z = append(s.Gyroscope.Z, 0)
}

// Recording is the full demultiplexed content of one sensor-log file:
// a shared timestamps array plus per-IMU series keyed by "IMU<id>".
// len(Timestamps) is the authoritative accepted-row count.
type Recording struct {
	Timestamps []float64                `json:"timestamps"`
	IMUs       map[string]*SensorSeries `json:"imus"`
}

// IMUKey formats the map key used for a sensor ID, e.g. "IMU0".
func IMUKey(sensorID string) string { return "IMU" + sensorID }
