package sensorlog

// ColumnType identifies what a data-row value represents.
type ColumnType string

const (
	ColumnTimestamp     ColumnType = "timestamp"
	ColumnAcceleration  ColumnType = "acceleration"
	ColumnGyroscope     ColumnType = "gyroscope"
	ColumnGaitParameter ColumnType = "gait_parameter"
)

// Axis identifies one axis of a three-axis sensor. Axes are assigned
// positionally within a descriptor triplet: first x, then y, then z.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

var axisOrder = [3]Axis{AxisX, AxisY, AxisZ}

// ColumnDescriptor describes one logical column of the data block.
// Index is the zero-based position of the column among the payload
// values of a row (the timestamp column is not part of the schema).
type ColumnDescriptor struct {
	Type     ColumnType `json:"type"`
	SensorID string     `json:"sensorId,omitempty"`
	Axis     Axis       `json:"axis,omitempty"`
	Unit     string     `json:"unit,omitempty"`
	Index    int        `json:"index"`
}

// ColumnSchema is the ordered column layout decoded from the second
// header line of a sensor-log file.
type ColumnSchema struct {
	// TotalColumns is the column count declared by the header. It is
	// informational only and is not cross-checked against row width.
	TotalColumns int

	Columns           []ColumnDescriptor
	SensorIDs         []string
	HasGaitParameters bool
	HasADCValues      bool
	ADCValueCount     int
}

// Empty reports whether the schema carries no usable column layout,
// which callers must treat as "header did not match the grammar".
func (s ColumnSchema) Empty() bool {
	return len(s.Columns) == 0 && len(s.SensorIDs) == 0
}

// DefaultSchema returns the last-resort column layout assumed when the
// header grammar cannot be parsed: a fixed 13-column file holding one
// timestamp and two IMUs, each contributing three acceleration and
// three gyroscope columns. Real-world files that omit or mangle the
// second header line follow this layout.
func DefaultSchema() ColumnSchema {
	schema := ColumnSchema{TotalColumns: 13}
	for _, id := range []string{"0", "1"} {
		for _, axis := range axisOrder {
			schema.Columns = append(schema.Columns, ColumnDescriptor{
				Type:     ColumnAcceleration,
				SensorID: id,
				Axis:     axis,
				Index:    len(schema.Columns),
			})
		}
		for _, axis := range axisOrder {
			schema.Columns = append(schema.Columns, ColumnDescriptor{
				Type:     ColumnGyroscope,
				SensorID: id,
				Axis:     axis,
				Index:    len(schema.Columns),
			})
		}
		schema.SensorIDs = append(schema.SensorIDs, id)
	}
	return schema
}
