// Package sensorlog implements the header/column inference and
// multi-sensor data extraction engine for the wearable gait logger's
// text-log format: a two-line self-describing header, a data block of
// inferable width, a "#16" sentinel, and trailing label metadata.
package sensorlog

import (
	"errors"
	"strings"
)

// minNonEmptyLines is the structural minimum for a parseable file: two
// header lines plus at least the start of a data or metadata section.
const minNonEmptyLines = 3

// ErrInsufficientLines is the only hard-stop condition of the parsing
// path, returned for files with fewer than three non-empty lines.
var ErrInsufficientLines = errors.New("insufficient lines")

// Engine parses sensor-log content handed in as in-memory strings. It
// is stateless between calls; concurrent use for different files needs
// no synchronization.
type Engine struct {
	trace TraceSink
}

// WithTraceSink injects a diagnostic sink receiving structured parse
// events.
func WithTraceSink(sink TraceSink) func(*Engine) {
	return func(e *Engine) {
		if sink != nil {
			e.trace = sink
		}
	}
}

// New creates an Engine. Without options all diagnostics are discarded.
func New(options ...func(*Engine)) *Engine {
	e := Engine{trace: Discard}
	for _, option := range options {
		option(&e)
	}
	return &e
}

// Structure describes a file without extracting its full series.
type Structure struct {
	Header        FileHeader
	Schema        ColumnSchema
	Columns       int
	SampleData    []float64
	DataStartLine int
}

// AnalyzeStructure parses both header lines, locates the data region
// and samples the first data row. It fails only on the structural
// minimum-line condition.
func (e *Engine) AnalyzeStructure(content string) (*Structure, error) {
	lines, err := structuralLines(content)
	if err != nil {
		return nil, err
	}

	schema := ParseColumnHeader(lines[1])
	e.traceSchema(schema)

	region := LocateDataRegion(lines)
	e.trace.Event(TraceEvent{
		Stage:   StageRegion,
		Message: "data region located",
		Attrs:   map[string]any{"startLine": region.Start, "endLine": region.End},
	})

	info := Preview(content)
	e.trace.Event(TraceEvent{
		Stage:   StagePreview,
		Message: "first data row sampled",
		Attrs:   map[string]any{"columns": info.Columns},
	})

	return &Structure{
		Header:        ParseFileHeader(lines[0]),
		Schema:        schema,
		Columns:       info.Columns,
		SampleData:    info.Sample,
		DataStartLine: region.Start,
	}, nil
}

// ExtractAll demultiplexes every sensor of the file into per-axis time
// series. When the column header does not match the grammar it falls
// back to the fixed two-IMU layout of DefaultSchema. A well-formed
// header with zero data rows yields empty arrays, not an error.
func (e *Engine) ExtractAll(content string) (*Recording, error) {
	rec, _, err := e.extract(content)
	return rec, err
}

// FilteredRecording is the engine output reduced to the sensors a
// caller selected, alongside the full catalog for selection UIs. The
// triads belong to the first selected sensor present in the file.
type FilteredRecording struct {
	Acceleration     Triad              `json:"acceleration"`
	Gyroscope        Triad              `json:"gyroscope"`
	Timestamps       []float64          `json:"timestamps"`
	AvailableSensors []SensorDescriptor `json:"availableSensors"`
}

// ExtractFiltered extracts the file and reduces the result to the first
// of the selected sensor IDs that is present. An empty selection, or a
// selection naming no sensor of the file, yields empty triads.
func (e *Engine) ExtractFiltered(content string, selectedSensorIDs []string) (*FilteredRecording, error) {
	rec, schema, err := e.extract(content)
	if err != nil {
		return nil, err
	}

	filtered := FilteredRecording{
		Timestamps:       rec.Timestamps,
		AvailableSensors: BuildCatalog(schema),
	}

	for _, id := range selectedSensorIDs {
		if series, ok := rec.IMUs[IMUKey(id)]; ok {
			filtered.Acceleration = series.Acceleration
			filtered.Gyroscope = series.Gyroscope
			break
		}
	}
	return &filtered, nil
}

func (e *Engine) extract(content string) (*Recording, ColumnSchema, error) {
	lines, err := structuralLines(content)
	if err != nil {
		return nil, ColumnSchema{}, err
	}

	schema := ParseColumnHeader(lines[1])
	e.traceSchema(schema)
	if schema.Empty() {
		schema = DefaultSchema()
		e.trace.Event(TraceEvent{
			Stage:   StageHeader,
			Message: "column header unparseable, assuming fixed two-IMU layout",
		})
	}

	region := LocateDataRegion(lines)
	rec, skipped := Demux(lines, region, schema)

	e.trace.Event(TraceEvent{
		Stage:   StageDemux,
		Message: "rows demultiplexed",
		Attrs: map[string]any{
			"accepted": len(rec.Timestamps),
			"skipped":  skipped,
			"imus":     len(rec.IMUs),
		},
	})
	if schema.HasADCValues {
		// ADC columns are counted but hold no schema slot, so the
		// positional mapping may be misaligned for files interleaving
		// them before sensor columns. Surfaced, not silently corrected:
		// no confirmed sample files exercise this layout.
		e.trace.Event(TraceEvent{
			Stage:   StageDemux,
			Message: "file declares ADC columns, positional mapping may be misaligned",
			Attrs:   map[string]any{"adcValueCount": schema.ADCValueCount},
		})
	}

	return rec, schema, nil
}

func (e *Engine) traceSchema(schema ColumnSchema) {
	e.trace.Event(TraceEvent{
		Stage:   StageHeader,
		Message: "column header parsed",
		Attrs: map[string]any{
			"declaredColumns": schema.TotalColumns,
			"schemaColumns":   len(schema.Columns),
			"sensorIds":       schema.SensorIDs,
			"gaitParameters":  schema.HasGaitParameters,
			"adcValues":       schema.ADCValueCount,
		},
	})
}

// structuralLines splits content and enforces the minimum-line
// structural requirement shared by all full-pipeline entry points.
func structuralLines(content string) ([]string, error) {
	lines := splitLines(content)

	var nonEmpty int
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
			if nonEmpty >= minNonEmptyLines {
				return lines, nil
			}
		}
	}
	return nil, ErrInsufficientLines
}
