package sensorlog

import "testing"

func TestLocateDataRegion_SentinelBounded(t *testing.T) {
	lines := []string{
		"GaitLog_1.2.3_X_4.5.6_DEV42",
		"# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]",
		"0.00 0.1 0.2 0.3 1.0 2.0 3.0",
		"0.01 0.1 0.2 0.3 1.0 2.0 3.0",
		"  #16",
		"0.02 0.1 0.2 0.3 1.0 2.0 3.0",
		"label metadata",
	}

	region := LocateDataRegion(lines)
	if region.Start != 2 || region.End != 4 {
		t.Errorf("Expected region [2, 4), got [%d, %d)", region.Start, region.End)
	}
}

func TestLocateDataRegion_NoSentinel(t *testing.T) {
	lines := []string{
		"GaitLog_1.2.3",
		"# 7 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]",
		"",
		"# firmware note",
		"0.00 0.1 0.2 0.3 1.0 2.0 3.0",
		"0.01 0.1 0.2 0.3 1.0 2.0 3.0",
	}

	region := LocateDataRegion(lines)
	if region.Start != 4 || region.End != len(lines) {
		t.Errorf("Expected region [4, %d), got [%d, %d)", len(lines), region.Start, region.End)
	}
}

func TestLocateDataRegion_NoDataRows(t *testing.T) {
	lines := []string{
		"GaitLog_1.2.3",
		"# 7 Clk[s]_3xAccelerationId0[g]",
		"not numeric at all",
		"#16",
		"trailer",
	}

	region := LocateDataRegion(lines)
	if !region.Empty() {
		t.Errorf("Expected empty region, got [%d, %d)", region.Start, region.End)
	}
	if region.Start != 3 || region.End != 3 {
		t.Errorf("Expected [3, 3), got [%d, %d)", region.Start, region.End)
	}
}

func TestLeadsWithNumber(t *testing.T) {
	testCases := []struct {
		line string
		want bool
	}{
		{"0.5 1.0", true},
		{"-12e3 x", true},
		{"NaN 1.0", false},
		{"Inf 1.0", false},
		{"abc 1.0", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := leadsWithNumber(tc.line); got != tc.want {
			t.Errorf("leadsWithNumber(%q): expected %v, got %v", tc.line, tc.want, got)
		}
	}
}
