// Package gait derives step events and walking metrics from the
// demultiplexed IMU time series of one recording. The formulas are
// deliberately simple heuristics inherited from the logger's companion
// software, not validated clinical algorithms.
package gait

import (
	"time"

	"github.com/SadokMestiri/Gait-Analysis/internal/sensorlog"
)

// Default spatial heuristics used when no subject measurements exist.
const (
	DefaultStepLength = 0.7 // meters, average adult
	DefaultStepWidth  = 0.1 // meters
)

// Baseline phase split assumed for a detected walking bout.
const (
	stancePhasePercent   = 60.0
	swingPhasePercent    = 40.0
	doubleSupportPercent = 10.0
)

// Options tune the derivation heuristics.
type Options struct {
	PeakThreshold float64
	StepLength    float64
	StepWidth     float64
}

// WithPeakThreshold overrides the step detection threshold.
func WithPeakThreshold(threshold float64) func(*Options) {
	return func(o *Options) { o.PeakThreshold = threshold }
}

// WithStepGeometry overrides the assumed step length and width.
func WithStepGeometry(length, width float64) func(*Options) {
	return func(o *Options) {
		o.StepLength = length
		o.StepWidth = width
	}
}

// ComputeAnalysis derives the full gait profile of one IMU's series.
// All metrics degrade to neutral defaults when the series is empty or
// holds too few steps; the function never fails.
func ComputeAnalysis(series *sensorlog.SensorSeries, timestamps []float64, patientID, sessionID string, options ...func(*Options)) *Analysis {
	opts := Options{
		PeakThreshold: DefaultPeakThreshold,
		StepLength:    DefaultStepLength,
		StepWidth:     DefaultStepWidth,
	}
	for _, option := range options {
		option(&opts)
	}

	analysis := Analysis{
		PatientID:     patientID,
		SessionID:     sessionID,
		SymmetryIndex: 100,
		ComputedAt:    time.Now(),
	}
	if series == nil || len(timestamps) == 0 {
		return &analysis
	}

	peaks := DetectSteps(series.Acceleration.Y, opts.PeakThreshold)
	intervals := StepIntervals(timestamps, peaks)
	cadence := Cadence(timestamps, peaks)

	analysis.StepCount = len(peaks)
	analysis.StepMetrics = StepMetrics{
		StepLength: opts.StepLength,
		StepTime:   mean(intervals),
		StepWidth:  opts.StepWidth,
		Cadence:    cadence,
		Velocity:   opts.StepLength * cadence / 60,
	}
	if len(peaks) >= 2 {
		analysis.GaitPhases = Phases{
			StancePhase:   stancePhasePercent,
			SwingPhase:    swingPhasePercent,
			DoubleSupport: doubleSupportPercent,
		}
	}
	analysis.RangeOfMotion = RangeOfMotionFrom(series.Gyroscope)
	analysis.SymmetryIndex = SymmetryIndex(timestamps, peaks)
	analysis.GaitDeviationIndex = DeviationIndex(series.Acceleration.Y)

	return &analysis
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
