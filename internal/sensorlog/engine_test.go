package sensorlog

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleLog = `GaitLog_1.2.3_X_4.5.6_DEV42(ACC,GYR)_UTC_2023-05-01T10:00:00
# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps] 512
0.00 0.10 0.90 0.30 1.0 2.0 3.0
0.50 0.20 0.10 0.40 1.5 2.5 3.5
1.00 0.30 0.80 0.50 2.0 3.0 4.0
#16
Label: corridor walk
`

func TestEngine_AnalyzeStructure(t *testing.T) {
	engine := New()

	structure, err := engine.AnalyzeStructure(sampleLog)
	if err != nil {
		t.Fatalf("Failed to analyze structure: %v", err)
	}

	if structure.Header.DeviceID.Value != "DEV42" {
		t.Errorf("Expected device ID DEV42, got %q", structure.Header.DeviceID.Value)
	}
	if structure.Columns != 7 {
		t.Errorf("Expected 7 columns on the first data row, got %d", structure.Columns)
	}
	if len(structure.Schema.Columns) != 6 {
		t.Errorf("Expected 6 schema columns, got %d", len(structure.Schema.Columns))
	}
	if structure.DataStartLine != 2 {
		t.Errorf("Expected data to start at line 2, got %d", structure.DataStartLine)
	}
	if !reflect.DeepEqual(structure.SampleData, []float64{0.00, 0.10, 0.90, 0.30, 1.0, 2.0, 3.0}) {
		t.Errorf("Unexpected sample data: %v", structure.SampleData)
	}
}

func TestEngine_ExtractAll(t *testing.T) {
	engine := New()

	rec, err := engine.ExtractAll(sampleLog)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}

	if !reflect.DeepEqual(rec.Timestamps, []float64{0.00, 0.50, 1.00}) {
		t.Fatalf("Expected timestamps [0 0.5 1], got %v", rec.Timestamps)
	}
	series, ok := rec.IMUs["IMU0"]
	if !ok {
		t.Fatalf("Expected series keyed IMU0, got %v", rec.IMUs)
	}
	if !reflect.DeepEqual(series.Acceleration.Y, []float64{0.90, 0.10, 0.80}) {
		t.Errorf("Expected accel.y [0.9 0.1 0.8], got %v", series.Acceleration.Y)
	}
	if !reflect.DeepEqual(series.Gyroscope.Z, []float64{3.0, 3.5, 4.0}) {
		t.Errorf("Expected gyro.z [3 3.5 4], got %v", series.Gyroscope.Z)
	}
}

// Parsing the same content twice must produce identical results; the
// engine holds no state between calls.
func TestEngine_ExtractAll_Deterministic(t *testing.T) {
	engine := New()

	first, err := engine.ExtractAll(sampleLog)
	if err != nil {
		t.Fatalf("First extraction failed: %v", err)
	}
	second, err := engine.ExtractAll(sampleLog)
	if err != nil {
		t.Fatalf("Second extraction failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for repeated extraction of the same content")
	}
}

// Everything after the sentinel is trailing metadata and must never
// surface as sensor values.
func TestEngine_ExtractAll_SentinelStopsParsing(t *testing.T) {
	content := sampleLog + "9.99 9.9 9.9 9.9 9.9 9.9 9.9\n"

	rec, err := New().ExtractAll(content)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}
	if len(rec.Timestamps) != 3 {
		t.Errorf("Expected 3 rows, got %d (numeric trailer parsed past the sentinel)", len(rec.Timestamps))
	}
}

func TestEngine_ExtractAll_FallbackSchema(t *testing.T) {
	content := `GaitLog_1.2.3_X_4.5.6_DEV42
this line does not match the header grammar
0.00 0.1 0.2 0.3 1.0 2.0 3.0 0.4 0.5 0.6 4.0 5.0 6.0
0.01 0.1 0.2 0.3 1.0 2.0 3.0 0.4 0.5 0.6 4.0 5.0 6.0
`

	rec, err := New().ExtractAll(content)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}

	// The fixed fallback layout carries two IMUs.
	if len(rec.IMUs) != 2 {
		t.Fatalf("Expected 2 IMUs from the fallback layout, got %d", len(rec.IMUs))
	}
	second, ok := rec.IMUs["IMU1"]
	if !ok {
		t.Fatal("Expected series keyed IMU1")
	}
	if !reflect.DeepEqual(second.Acceleration.X, []float64{0.4, 0.4}) {
		t.Errorf("Expected IMU1 accel.x [0.4 0.4], got %v", second.Acceleration.X)
	}
	if !reflect.DeepEqual(second.Gyroscope.Z, []float64{6.0, 6.0}) {
		t.Errorf("Expected IMU1 gyro.z [6 6], got %v", second.Gyroscope.Z)
	}
}

func TestEngine_InsufficientLines(t *testing.T) {
	engine := New()

	testCases := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"header only", "GaitLog_1.2.3\n"},
		{"two lines", "GaitLog_1.2.3\n# 7 Clk[s]_3xAccelerationId0[g]\n"},
		{"blank padding", "GaitLog_1.2.3\n\n\n# 7 Clk[s]_3xAccelerationId0[g]\n\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.ExtractAll(tc.content); !errors.Is(err, ErrInsufficientLines) {
				t.Errorf("Expected ErrInsufficientLines, got %v", err)
			}
			if _, err := engine.AnalyzeStructure(tc.content); !errors.Is(err, ErrInsufficientLines) {
				t.Errorf("Expected ErrInsufficientLines from AnalyzeStructure, got %v", err)
			}
		})
	}
}

// A structurally valid file whose data region holds no rows yields
// empty arrays, not an error.
func TestEngine_ExtractAll_ZeroRows(t *testing.T) {
	content := `GaitLog_1.2.3
# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]
#16
Label: aborted session
`

	rec, err := New().ExtractAll(content)
	if err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}
	if len(rec.Timestamps) != 0 {
		t.Errorf("Expected zero rows, got %d", len(rec.Timestamps))
	}
	series, ok := rec.IMUs["IMU0"]
	if !ok {
		t.Fatal("Expected schema sensors present with zero rows")
	}
	if len(series.Acceleration.X) != 0 {
		t.Errorf("Expected empty axis arrays, got %d values", len(series.Acceleration.X))
	}
}

func TestEngine_ExtractFiltered(t *testing.T) {
	content := strings.Replace(sampleLog,
		"# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps] 512",
		"# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId1[dps] 512", 1)

	engine := New()

	filtered, err := engine.ExtractFiltered(content, []string{"1"})
	if err != nil {
		t.Fatalf("Failed to extract filtered: %v", err)
	}
	if !reflect.DeepEqual(filtered.Gyroscope.Z, []float64{3.0, 3.5, 4.0}) {
		t.Errorf("Expected sensor 1 gyro.z [3 3.5 4], got %v", filtered.Gyroscope.Z)
	}
	// Sensor 1 has no acceleration columns.
	if !reflect.DeepEqual(filtered.Acceleration.X, []float64{0, 0, 0}) {
		t.Errorf("Expected zero-filled accel.x for sensor 1, got %v", filtered.Acceleration.X)
	}
	if len(filtered.AvailableSensors) != 2 {
		t.Errorf("Expected 2 catalog entries, got %d", len(filtered.AvailableSensors))
	}

	// Empty selection yields empty triads but keeps timestamps and the
	// catalog.
	empty, err := engine.ExtractFiltered(content, nil)
	if err != nil {
		t.Fatalf("Failed to extract with empty selection: %v", err)
	}
	if empty.Acceleration.X != nil || empty.Gyroscope.X != nil {
		t.Error("Expected empty triads for empty selection")
	}
	if len(empty.Timestamps) != 3 || len(empty.AvailableSensors) != 2 {
		t.Errorf("Expected timestamps and catalog regardless of selection, got %d/%d",
			len(empty.Timestamps), len(empty.AvailableSensors))
	}
}

func TestEngine_TraceEvents(t *testing.T) {
	var stages []string
	sink := TraceFunc(func(event TraceEvent) {
		stages = append(stages, event.Stage)
	})
	engine := New(WithTraceSink(sink))

	if _, err := engine.ExtractAll(sampleLog); err != nil {
		t.Fatalf("Failed to extract: %v", err)
	}
	if len(stages) == 0 {
		t.Fatal("Expected trace events during extraction")
	}

	var sawHeader, sawDemux bool
	for _, stage := range stages {
		switch stage {
		case StageHeader:
			sawHeader = true
		case StageDemux:
			sawDemux = true
		}
	}
	if !sawHeader || !sawDemux {
		t.Errorf("Expected header and demux stage events, got %v", stages)
	}

	stages = nil
	if _, err := engine.AnalyzeStructure(sampleLog); err != nil {
		t.Fatalf("Failed to analyze structure: %v", err)
	}

	var sawRegion, sawPreview bool
	for _, stage := range stages {
		switch stage {
		case StageRegion:
			sawRegion = true
		case StagePreview:
			sawPreview = true
		}
	}
	if !sawRegion || !sawPreview {
		t.Errorf("Expected region and preview stage events, got %v", stages)
	}
}
