package gait

// DefaultPeakThreshold is the minimum vertical acceleration a local
// maximum must exceed to count as a step event.
const DefaultPeakThreshold = 0.3

// DetectSteps finds step events in a vertical-acceleration series using
// a 3-point local-maxima window: a sample is a step peak when it
// exceeds both neighbors and the threshold. Returned indices are in
// ascending order. Series shorter than three samples yield no peaks.
func DetectSteps(signal []float64, threshold float64) []int {
	var peaks []int
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] > signal[i-1] && signal[i] > signal[i+1] && signal[i] > threshold {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// StepIntervals returns the pairwise time differences between
// consecutive detected peaks, in milliseconds.
func StepIntervals(timestamps []float64, peaks []int) []float64 {
	if len(peaks) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals = append(intervals, (timestamps[peaks[i]]-timestamps[peaks[i-1]])*1000)
	}
	return intervals
}

// Cadence computes steps per minute from detected peaks. Returns 0 for
// fewer than two steps or a non-positive time span.
func Cadence(timestamps []float64, peaks []int) float64 {
	if len(peaks) < 2 {
		return 0
	}
	span := timestamps[peaks[len(peaks)-1]] - timestamps[peaks[0]]
	if span <= 0 {
		return 0
	}
	return float64(len(peaks)-1) / span * 60
}
