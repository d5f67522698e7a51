package sensorlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field carries a parsed value together with a flag telling whether the
// value came from the file or is a documented fallback default. The
// logger firmware emits positionally fragile headers, so callers need a
// way to tell real metadata from a substituted placeholder.
type Field[T any] struct {
	Value     T
	Defaulted bool
}

// Parsed wraps a value read from the file.
func Parsed[T any](v T) Field[T] { return Field[T]{Value: v} }

// Fallback wraps a default substituted for an absent or malformed segment.
func Fallback[T any](v T) Field[T] { return Field[T]{Value: v, Defaulted: true} }

// UnknownValue is the placeholder for absent header metadata segments.
const UnknownValue = "Unknown"

// FileHeader is the device metadata decoded from the first line of a
// sensor-log file. Header metadata parsing never fails outright: absent
// or malformed segments default to UnknownValue or the current time.
type FileHeader struct {
	SoftwareVersion Field[string]
	FirmwareVersion Field[string]
	DeviceID        Field[string]
	SensorTypes     Field[[]string]
	RecordedAt      Field[time.Time]
}

var (
	columnHeaderRe = regexp.MustCompile(`^#\s+(\d+)\s+(.+)`)
	clkTokenRe     = regexp.MustCompile(`^Clk(\[[^\]]*\])?$`)
	sensorTokenRe  = regexp.MustCompile(`^(\d+)x(Acceleration|Gyroscope)Id(\d+)(?:\[([^\]]*)\])?$`)
	adcTokenRe     = regexp.MustCompile(`^(\d+)xADCValueId(\d+)(?:\[[^\]]*\])?$`)
	sensorCodesRe  = regexp.MustCompile(`\(([^)]*)\)`)
)

// gaitParameterTokens are descriptor keywords the firmware appends when
// on-device gait parameter estimation was enabled during recording.
var gaitParameterTokens = map[string]struct{}{
	"StepTime":       {},
	"DeltaYaw":       {},
	"DeltaPitch":     {},
	"DeltaRoll":      {},
	"PrevStanceTime": {},
	"PrevSwingTime":  {},
}

// ParseColumnHeader decodes the second header line
// ("# <totalColumns> <descriptor>_<descriptor>_... <extra>") into a
// column schema. A line that does not match the header grammar yields
// an empty schema rather than an error; callers must treat an empty
// schema as "cannot parse, fall back to defaults". Unrecognized
// descriptor tokens are skipped so that unknown future fields do not
// abort the pipeline.
func ParseColumnHeader(line string) ColumnSchema {
	m := columnHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ColumnSchema{}
	}

	var schema ColumnSchema
	schema.TotalColumns, _ = strconv.Atoi(m[1])

	// The descriptor list is the first whitespace-delimited field of the
	// remainder; trailing fields are firmware-internal counters.
	descriptors := strings.Fields(m[2])
	if len(descriptors) == 0 {
		return ColumnSchema{}
	}

	seenIDs := make(map[string]struct{})
	for _, token := range strings.Split(descriptors[0], "_") {
		switch {
		case clkTokenRe.MatchString(token):
			// Timestamp column, consumed but never part of the schema.

		case adcTokenRe.MatchString(token):
			am := adcTokenRe.FindStringSubmatch(token)
			n, _ := strconv.Atoi(am[1])
			schema.ADCValueCount += n
			schema.HasADCValues = true

		case sensorTokenRe.MatchString(token):
			sm := sensorTokenRe.FindStringSubmatch(token)
			n, _ := strconv.Atoi(sm[1])
			if n > len(axisOrder) {
				n = len(axisOrder)
			}

			columnType := ColumnAcceleration
			if sm[2] == "Gyroscope" {
				columnType = ColumnGyroscope
			}

			for i := 0; i < n; i++ {
				schema.Columns = append(schema.Columns, ColumnDescriptor{
					Type:     columnType,
					SensorID: sm[3],
					Axis:     axisOrder[i],
					Unit:     sm[4],
					Index:    len(schema.Columns),
				})
			}

			if _, ok := seenIDs[sm[3]]; !ok {
				seenIDs[sm[3]] = struct{}{}
				schema.SensorIDs = append(schema.SensorIDs, sm[3])
			}

		case isGaitParameterToken(token):
			schema.HasGaitParameters = true

		default:
			// Unknown token, permissive parse: ignore.
		}
	}

	return schema
}

func isGaitParameterToken(token string) bool {
	if _, ok := gaitParameterTokens[token]; ok {
		return true
	}
	return strings.HasSuffix(token, "Symmetry")
}

// headerTimestampLayouts are the timestamp shapes observed after the
// "_UTC_" marker across firmware revisions.
var headerTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15-04-05",
	"2006-01-02 15:04:05",
}

// ParseFileHeader decodes the underscore-delimited first line of a
// sensor-log file. Every segment degrades independently: a missing
// version or device segment becomes UnknownValue, a missing or
// unparseable timestamp becomes the current time. Only structural
// failures elsewhere in the pipeline are fatal.
func ParseFileHeader(line string) FileHeader {
	header := FileHeader{
		SoftwareVersion: Fallback(UnknownValue),
		FirmwareVersion: Fallback(UnknownValue),
		DeviceID:        Fallback(UnknownValue),
		SensorTypes:     Fallback[[]string](nil),
		RecordedAt:      Fallback(time.Now()),
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return header
	}

	if m := sensorCodesRe.FindStringSubmatch(line); m != nil {
		var types []string
		for _, code := range strings.Split(m[1], ",") {
			if code = strings.TrimSpace(code); code != "" {
				types = append(types, code)
			}
		}
		if len(types) > 0 {
			header.SensorTypes = Parsed(types)
		}
	}

	// Timestamp trails a literal "_UTC_" marker.
	if _, rest, found := strings.Cut(line, "_UTC_"); found {
		raw := strings.TrimSpace(rest)
		for _, layout := range headerTimestampLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				header.RecordedAt = Parsed(ts)
				break
			}
		}
		line = line[:strings.Index(line, "_UTC_")]
	}

	tokens := strings.Split(line, "_")
	if len(tokens) > 1 && tokens[1] != "" {
		header.SoftwareVersion = Parsed(tokens[1])
	}
	if len(tokens) > 3 && tokens[3] != "" {
		header.FirmwareVersion = Parsed(tokens[3])
	}
	if len(tokens) > 4 {
		// The device segment may carry the parenthesized sensor type
		// codes appended directly to the ID.
		device := sensorCodesRe.ReplaceAllString(tokens[4], "")
		if device != "" {
			header.DeviceID = Parsed(device)
		}
	}

	return header
}
