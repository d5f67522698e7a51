package sensorlog

// SensorDescriptor identifies one distinct sensor of the file together
// with the axes its columns cover. Used to populate selection UIs
// before, and independent of, a full data load.
type SensorDescriptor struct {
	Type          ColumnType `json:"type"`
	ID            string     `json:"id"`
	AvailableAxes []Axis     `json:"availableAxes"`
}

// BuildCatalog groups the schema's columns by (type, sensor ID) and
// collects the distinct axes present per group, in x, y, z order.
// It is a pure function of the schema and never touches parsed data.
func BuildCatalog(schema ColumnSchema) []SensorDescriptor {
	type groupKey struct {
		columnType ColumnType
		sensorID   string
	}

	axes := make(map[groupKey]map[Axis]struct{})
	var order []groupKey

	for _, col := range schema.Columns {
		if col.Type != ColumnAcceleration && col.Type != ColumnGyroscope {
			continue
		}
		key := groupKey{col.Type, col.SensorID}
		if _, ok := axes[key]; !ok {
			axes[key] = make(map[Axis]struct{})
			order = append(order, key)
		}
		axes[key][col.Axis] = struct{}{}
	}

	catalog := make([]SensorDescriptor, 0, len(order))
	for _, key := range order {
		desc := SensorDescriptor{Type: key.columnType, ID: key.sensorID}
		for _, axis := range axisOrder {
			if _, ok := axes[key][axis]; ok {
				desc.AvailableAxes = append(desc.AvailableAxes, axis)
			}
		}
		catalog = append(catalog, desc)
	}
	return catalog
}
