package sensorlog

import (
	"math"
	"strconv"
	"strings"
)

// SentinelToken marks the end of the numeric data block. Everything
// after it is trailing calibration and label text and must never be
// parsed as sensor values.
const SentinelToken = "#16"

// headerLineCount is the fixed number of header lines preceding data.
const headerLineCount = 2

// Region is a half-open [Start, End) range of line indices holding the
// numeric data block of a file. Start == End means zero data rows,
// which is a valid state, not an error.
type Region struct {
	Start int
	End   int
}

// Empty reports whether the region contains no data lines.
func (r Region) Empty() bool { return r.Start >= r.End }

// LocateDataRegion scans the file's lines for the boundaries of the
// numeric data block. The end is the first line starting with the
// sentinel token, or the end of file when no sentinel exists. The
// start is the first line past the two-line header that is non-empty,
// not a comment, and leads with a finite number.
func LocateDataRegion(lines []string) Region {
	end := len(lines)
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), SentinelToken) {
			end = i
			break
		}
	}

	for i := headerLineCount; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if leadsWithNumber(line) {
			return Region{Start: i, End: end}
		}
	}

	return Region{Start: end, End: end}
}

// leadsWithNumber reports whether the first whitespace-delimited token
// of line parses as a finite number.
func leadsWithNumber(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}
