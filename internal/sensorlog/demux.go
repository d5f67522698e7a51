package sensorlog

import (
	"math"
	"strconv"
	"strings"
)

// minRowValues is the minimum number of numeric values a line must
// yield to be accepted: a timestamp plus at least one payload value.
const minRowValues = 2

// columnBinding routes one payload column to its destination axis
// array. The binding table is built once per file from the schema and
// applied per row, so a disagreement between schema width and row width
// cannot drift the mapping.
type columnBinding struct {
	imuKey string
	slot   func(*SensorSeries) *[]float64
}

var axisSlots = map[ColumnType]map[Axis]func(*SensorSeries) *[]float64{
	ColumnAcceleration: {
		AxisX: func(s *SensorSeries) *[]float64 { return &s.Acceleration.X },
		AxisY: func(s *SensorSeries) *[]float64 { return &s.Acceleration.Y },
		AxisZ: func(s *SensorSeries) *[]float64 { return &s.Acceleration.Z },
	},
	ColumnGyroscope: {
		AxisX: func(s *SensorSeries) *[]float64 { return &s.Gyroscope.X },
		AxisY: func(s *SensorSeries) *[]float64 { return &s.Gyroscope.Y },
		AxisZ: func(s *SensorSeries) *[]float64 { return &s.Gyroscope.Z },
	},
}

// buildBindings maps each schema column position to a destination
// accessor. Columns of types without an axis slot produce nil bindings
// and their row values are dropped.
func buildBindings(schema ColumnSchema) []*columnBinding {
	bindings := make([]*columnBinding, len(schema.Columns))
	for i, col := range schema.Columns {
		slots, ok := axisSlots[col.Type]
		if !ok {
			continue
		}
		slot, ok := slots[col.Axis]
		if !ok {
			continue
		}
		bindings[i] = &columnBinding{imuKey: IMUKey(col.SensorID), slot: slot}
	}
	return bindings
}

// Demux routes every accepted data line of the located region into
// per-sensor, per-axis arrays according to the schema. Malformed rows
// are skipped silently; the function always returns whatever could be
// parsed plus the number of rows it dropped. The value at row position
// j (j >= 1) maps to schema column j-1; values beyond the schema are
// ignored and schema columns beyond the row's width keep their zero
// fill for that row.
func Demux(lines []string, region Region, schema ColumnSchema) (*Recording, int) {
	rec := &Recording{IMUs: make(map[string]*SensorSeries, len(schema.SensorIDs))}
	for _, id := range schema.SensorIDs {
		rec.IMUs[IMUKey(id)] = &SensorSeries{}
	}

	bindings := buildBindings(schema)

	var skipped int
	for i := region.Start; i < region.End && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		values, numeric := parseRow(line)
		if numeric < minRowValues || len(values) == 0 || math.IsNaN(values[0]) {
			skipped++
			continue
		}

		rec.Timestamps = append(rec.Timestamps, values[0])
		for _, series := range rec.IMUs {
			series.appendZero()
		}
		row := len(rec.Timestamps) - 1

		for j := 1; j < len(values); j++ {
			if j-1 >= len(bindings) {
				break
			}
			b := bindings[j-1]
			if b == nil || math.IsNaN(values[j]) {
				continue
			}
			series, ok := rec.IMUs[b.imuKey]
			if !ok {
				continue
			}
			(*b.slot(series))[row] = values[j]
		}
	}

	return rec, skipped
}

// parseRow splits a line on whitespace and parses every token as a
// float. Unparseable tokens become NaN so the positional mapping of the
// remaining values is preserved. Returns the values and the count of
// numeric (non-NaN) ones.
func parseRow(line string) ([]float64, int) {
	fields := strings.Fields(line)
	values := make([]float64, len(fields))

	var numeric int
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(v) {
			values[i] = math.NaN()
			continue
		}
		values[i] = v
		numeric++
	}
	return values, numeric
}
