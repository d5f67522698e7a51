package sensorlog

import (
	"math"
	"strconv"
	"strings"
)

// previewSampleSize caps the number of values reported for the first
// data row.
const previewSampleSize = 10

// PreviewInfo is a lightweight characterization of an unknown file used
// for fast-fail validation without running the full pipeline.
type PreviewInfo struct {
	// Columns is the count of numeric values on the first data row.
	// It intentionally differs from the header-declared column count;
	// callers use the discrepancy as a soft validation signal.
	Columns int
	// Sample holds up to the first ten numeric values of the first
	// data row.
	Sample []float64
	// Header is the first non-empty line of the file.
	Header string
}

// Preview inspects the file content under the fixed two-line-header
// convention: the third non-empty line is assumed to be the first data
// row. Files with fewer than three non-empty lines yield a zero value.
func Preview(content string) PreviewInfo {
	var nonEmpty []string
	for _, line := range splitLines(content) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
			if len(nonEmpty) == 3 {
				break
			}
		}
	}
	if len(nonEmpty) < 3 {
		return PreviewInfo{}
	}

	info := PreviewInfo{Header: nonEmpty[0]}
	for _, field := range strings.Fields(nonEmpty[2]) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		info.Columns++
		if len(info.Sample) < previewSampleSize {
			info.Sample = append(info.Sample, v)
		}
	}
	return info
}

// splitLines splits content into lines, tolerating CRLF endings.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
