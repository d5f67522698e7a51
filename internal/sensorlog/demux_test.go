package sensorlog

import (
	"reflect"
	"testing"
)

func singleIMUSchema() ColumnSchema {
	return ParseColumnHeader("# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]")
}

func TestDemux_RoutesColumns(t *testing.T) {
	lines := []string{
		"header",
		"column header",
		"0.00 0.1 0.2 0.3 1.0 2.0 3.0",
		"0.01 0.4 0.5 0.6 4.0 5.0 6.0",
	}

	rec, skipped := Demux(lines, Region{Start: 2, End: 4}, singleIMUSchema())
	if skipped != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", skipped)
	}
	if !reflect.DeepEqual(rec.Timestamps, []float64{0.00, 0.01}) {
		t.Fatalf("Expected timestamps [0 0.01], got %v", rec.Timestamps)
	}

	series, ok := rec.IMUs[IMUKey("0")]
	if !ok {
		t.Fatal("Expected series for IMU0")
	}
	if !reflect.DeepEqual(series.Acceleration.X, []float64{0.1, 0.4}) {
		t.Errorf("Expected accel.x [0.1 0.4], got %v", series.Acceleration.X)
	}
	if !reflect.DeepEqual(series.Acceleration.Z, []float64{0.3, 0.6}) {
		t.Errorf("Expected accel.z [0.3 0.6], got %v", series.Acceleration.Z)
	}
	if !reflect.DeepEqual(series.Gyroscope.Y, []float64{2.0, 5.0}) {
		t.Errorf("Expected gyro.y [2 5], got %v", series.Gyroscope.Y)
	}
}

// All axis arrays must stay in lock-step with the timestamp array even
// for rows narrower than the schema.
func TestDemux_ShortRowsZeroFilled(t *testing.T) {
	lines := []string{
		"h1",
		"h2",
		"0.00 0.1 0.2",
		"0.01 0.4 0.5 0.6 4.0 5.0 6.0",
	}

	rec, skipped := Demux(lines, Region{Start: 2, End: 4}, singleIMUSchema())
	if skipped != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", skipped)
	}

	series := rec.IMUs[IMUKey("0")]
	n := len(rec.Timestamps)
	for name, arr := range map[string][]float64{
		"accel.x": series.Acceleration.X,
		"accel.y": series.Acceleration.Y,
		"accel.z": series.Acceleration.Z,
		"gyro.x":  series.Gyroscope.X,
		"gyro.y":  series.Gyroscope.Y,
		"gyro.z":  series.Gyroscope.Z,
	} {
		if len(arr) != n {
			t.Errorf("%s: expected length %d, got %d", name, n, len(arr))
		}
	}

	// The short first row left its missing columns zero filled.
	if series.Acceleration.Z[0] != 0 || series.Gyroscope.X[0] != 0 {
		t.Errorf("Expected zero fill for missing columns, got accel.z=%v gyro.x=%v",
			series.Acceleration.Z[0], series.Gyroscope.X[0])
	}
	if series.Acceleration.Z[1] != 0.6 {
		t.Errorf("Expected accel.z[1]=0.6, got %v", series.Acceleration.Z[1])
	}
}

func TestDemux_SkipsMalformedRows(t *testing.T) {
	lines := []string{
		"h1",
		"h2",
		"0.00 0.1 0.2 0.3 1.0 2.0 3.0", // accepted
		"abc 0.1",                      // no leading number
		"0.01",                         // single value
		"NaN 0.1 0.2",                  // NaN timestamp
		"# comment",                    // skipped without counting
		"",                             // skipped without counting
		"0.02 def 0.5 0.6 4.0 5.0 6.0", // accepted, bad token zero filled
	}

	rec, skipped := Demux(lines, Region{Start: 2, End: len(lines)}, singleIMUSchema())
	if skipped != 3 {
		t.Errorf("Expected 3 skipped rows, got %d", skipped)
	}
	if !reflect.DeepEqual(rec.Timestamps, []float64{0.00, 0.02}) {
		t.Fatalf("Expected timestamps [0 0.02], got %v", rec.Timestamps)
	}

	series := rec.IMUs[IMUKey("0")]
	if series.Acceleration.X[1] != 0 {
		t.Errorf("Expected unparseable token to leave zero fill, got %v", series.Acceleration.X[1])
	}
	if series.Acceleration.Y[1] != 0.5 {
		t.Errorf("Expected positional mapping preserved past bad token, got accel.y=%v", series.Acceleration.Y[1])
	}
}

func TestDemux_ValuesBeyondSchemaIgnored(t *testing.T) {
	lines := []string{
		"h1",
		"h2",
		"0.00 0.1 0.2 0.3 1.0 2.0 3.0 99.0 98.0",
	}

	rec, _ := Demux(lines, Region{Start: 2, End: 3}, singleIMUSchema())
	series := rec.IMUs[IMUKey("0")]
	if series.Gyroscope.Z[0] != 3.0 {
		t.Errorf("Expected gyro.z=3.0, got %v", series.Gyroscope.Z[0])
	}
}

func TestDemux_EmptyRegion(t *testing.T) {
	rec, skipped := Demux([]string{"h1", "h2"}, Region{Start: 2, End: 2}, singleIMUSchema())
	if skipped != 0 || len(rec.Timestamps) != 0 {
		t.Errorf("Expected empty recording, got %d timestamps, %d skipped", len(rec.Timestamps), skipped)
	}
	if _, ok := rec.IMUs[IMUKey("0")]; !ok {
		t.Error("Expected schema sensors present even with zero rows")
	}
}
