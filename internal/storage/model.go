package storage

import (
	"time"

	"github.com/SadokMestiri/Gait-Analysis/internal/gait"
)

// Recording is one ingested sensor-log file keyed by patient and
// session. Re-ingesting the same key replaces the recording and all of
// its dependent rows.
type Recording struct {
	ID              int64
	PatientID       string
	SessionID       string
	DeviceID        string
	SoftwareVersion string
	FirmwareVersion string
	RecordedAt      time.Time
	SourceFile      string
	RowCount        int64
	CreatedAt       time.Time
}

// SampleRow is one IMU's reading at one accepted data row.
type SampleRow struct {
	RecordingID int64
	Timestamp   float64 // seconds, as recorded in the file
	IMU         string  // e.g. "IMU0"
	AccelX      float64
	AccelY      float64
	AccelZ      float64
	GyroX       float64
	GyroY       float64
	GyroZ       float64
}

// AnalysisRecord is a stored gait analysis for one IMU of a recording.
type AnalysisRecord struct {
	RecordingID int64
	IMU         string
	gait.Analysis
}
