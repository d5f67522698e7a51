package gait

import "time"

// Phases is the proportion of a walking cycle spent in stance (foot on
// ground), swing (foot in air) and double support (both feet on
// ground). Stance and swing sum to roughly 100; double support is the
// overlap window counted within stance.
type Phases struct {
	StancePhase   float64 `json:"stancePhase"`
	SwingPhase    float64 `json:"swingPhase"`
	DoubleSupport float64 `json:"doubleSupport"`
}

// StepMetrics aggregates per-step spatial and temporal measures.
type StepMetrics struct {
	StepLength float64 `json:"stepLength"` // meters
	StepTime   float64 `json:"stepTime"`   // milliseconds, mean interval
	StepWidth  float64 `json:"stepWidth"`  // meters
	Cadence    float64 `json:"cadence"`    // steps per minute
	Velocity   float64 `json:"velocity"`   // meters per second
}

// RangeOfMotion holds joint-angle extrema proxies in degrees.
type RangeOfMotion struct {
	HipFlexion          float64 `json:"hipFlexion"`
	HipExtension        float64 `json:"hipExtension"`
	KneeFlexion         float64 `json:"kneeFlexion"`
	KneeExtension       float64 `json:"kneeExtension"`
	AnkleDorsiflexion   float64 `json:"ankleDorsiflexion"`
	AnklePlantarflexion float64 `json:"anklePlantarflexion"`
}

// Analysis is the derived gait profile of one recording, keyed by
// patient and session. It is computed once per loaded recording;
// recomputing for the same key replaces any prior entry.
type Analysis struct {
	PatientID string `json:"patientId"`
	SessionID string `json:"sessionId"`

	GaitPhases    Phases        `json:"gaitPhases"`
	StepMetrics   StepMetrics   `json:"stepMetrics"`
	RangeOfMotion RangeOfMotion `json:"rangeOfMotion"`

	// SymmetryIndex is 0-100, 100 meaning perfectly symmetric timing.
	SymmetryIndex float64 `json:"symmetryIndex"`
	// GaitDeviationIndex is >= 0; lower is better.
	GaitDeviationIndex float64 `json:"gaitDeviationIndex"`

	StepCount  int       `json:"stepCount"`
	ComputedAt time.Time `json:"computedAt"`
}
