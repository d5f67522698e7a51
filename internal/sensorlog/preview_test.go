package sensorlog

import (
	"reflect"
	"testing"
)

func TestPreview(t *testing.T) {
	content := "GaitLog_1.2.3\r\n# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]\r\n0.00 0.1 0.2 0.3 1.0 2.0 3.0\r\n"

	info := Preview(content)
	if info.Header != "GaitLog_1.2.3" {
		t.Errorf("Expected header line, got %q", info.Header)
	}
	if info.Columns != 7 {
		t.Errorf("Expected 7 columns, got %d", info.Columns)
	}
	if !reflect.DeepEqual(info.Sample, []float64{0.00, 0.1, 0.2, 0.3, 1.0, 2.0, 3.0}) {
		t.Errorf("Unexpected sample: %v", info.Sample)
	}
}

func TestPreview_SampleCapped(t *testing.T) {
	content := "h1\nh2\n0 1 2 3 4 5 6 7 8 9 10 11 12\n"

	info := Preview(content)
	if info.Columns != 13 {
		t.Errorf("Expected all 13 columns counted, got %d", info.Columns)
	}
	if len(info.Sample) != previewSampleSize {
		t.Errorf("Expected sample capped at %d values, got %d", previewSampleSize, len(info.Sample))
	}
}

func TestPreview_NonNumericTokensSkipped(t *testing.T) {
	info := Preview("h1\nh2\n0.5 abc 1.5 NaN 2.5\n")
	if info.Columns != 3 {
		t.Errorf("Expected 3 numeric columns, got %d", info.Columns)
	}
	if !reflect.DeepEqual(info.Sample, []float64{0.5, 1.5, 2.5}) {
		t.Errorf("Unexpected sample: %v", info.Sample)
	}
}

func TestPreview_TooFewLines(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"one line", "h1\n"},
		{"two lines with blanks", "h1\n\n\nh2\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if info := Preview(tc.content); !reflect.DeepEqual(info, PreviewInfo{}) {
				t.Errorf("Expected zero value, got %+v", info)
			}
		})
	}
}
