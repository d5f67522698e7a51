package sensorlog

import (
	"reflect"
	"testing"
)

func TestBuildCatalog(t *testing.T) {
	schema := ParseColumnHeader("# 13 Clk[s]_3xAccelerationId0[g]_3xGyroscopeId0[dps]_1xAccelerationId1[g]")

	catalog := BuildCatalog(schema)
	want := []SensorDescriptor{
		{Type: ColumnAcceleration, ID: "0", AvailableAxes: []Axis{AxisX, AxisY, AxisZ}},
		{Type: ColumnGyroscope, ID: "0", AvailableAxes: []Axis{AxisX, AxisY, AxisZ}},
		{Type: ColumnAcceleration, ID: "1", AvailableAxes: []Axis{AxisX}},
	}
	if !reflect.DeepEqual(catalog, want) {
		t.Errorf("Unexpected catalog:\n got %+v\nwant %+v", catalog, want)
	}
}

func TestBuildCatalog_EmptySchema(t *testing.T) {
	if catalog := BuildCatalog(ColumnSchema{}); len(catalog) != 0 {
		t.Errorf("Expected empty catalog, got %+v", catalog)
	}
}
