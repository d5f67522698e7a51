package gait

import (
	"github.com/SadokMestiri/Gait-Analysis/internal/sensorlog"
)

// Diagnostic thresholds for abnormality screening.
const (
	highVarianceThreshold = 0.5
	minExpectedSteps      = 5
	asymmetryThreshold    = 85
)

// Abnormality flag messages.
const (
	FlagHighVariability = "high variability"
	FlagLowStepCount    = "low step count"
	FlagAsymmetry       = "asymmetry detected"
)

// DetectAbnormalities screens one IMU's series for coarse walking
// anomalies. The flags are diagnostic hints for review, not part of the
// analysis record itself.
func DetectAbnormalities(series *sensorlog.SensorSeries, timestamps []float64) []string {
	if series == nil || len(timestamps) == 0 {
		return nil
	}

	var flags []string
	if Variance(series.Acceleration.Y) > highVarianceThreshold {
		flags = append(flags, FlagHighVariability)
	}

	peaks := DetectSteps(series.Acceleration.Y, DefaultPeakThreshold)
	if len(peaks) < minExpectedSteps {
		flags = append(flags, FlagLowStepCount)
	}
	if SymmetryIndex(timestamps, peaks) < asymmetryThreshold {
		flags = append(flags, FlagAsymmetry)
	}
	return flags
}
