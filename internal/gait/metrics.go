package gait

import (
	"math"

	"github.com/SadokMestiri/Gait-Analysis/internal/sensorlog"
)

// gyroDegreesScale converts raw gyroscope units to approximate joint
// degrees. A unit-scaling heuristic, not a biomechanical model.
const gyroDegreesScale = 0.1

// SymmetryIndex scores left/right step timing consistency on a 0-100
// scale, 100 being perfectly symmetric. Peaks are assigned to sides by
// parity of detection order (a simplification, not true gait-event
// lateralization); each side's mean inter-step time is compared as
// min/max * 100, rounded to the nearest integer. Returns 100 when
// either side contributes no usable interval.
func SymmetryIndex(timestamps []float64, peaks []int) float64 {
	var left, right []float64
	for i, p := range peaks {
		if i%2 == 0 {
			left = append(left, timestamps[p])
		} else {
			right = append(right, timestamps[p])
		}
	}

	leftAvg := meanInterval(left)
	rightAvg := meanInterval(right)
	if leftAvg <= 0 || rightAvg <= 0 {
		return 100
	}
	return math.Round(math.Min(leftAvg, rightAvg) / math.Max(leftAvg, rightAvg) * 100)
}

func meanInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(times); i++ {
		sum += times[i] - times[i-1]
	}
	return sum / float64(len(times)-1)
}

// DeviationIndex derives a gait deviation score from the variance of
// vertical acceleration: sqrt(variance) * 10, rounded to two decimals.
// Higher variance means higher (worse) deviation; lower is better.
func DeviationIndex(vertical []float64) float64 {
	return math.Round(math.Sqrt(Variance(vertical))*10*100) / 100
}

// Variance computes the population variance of a series. Empty series
// yield 0.
func Variance(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))

	var sq float64
	for _, x := range v {
		sq += (x - mean) * (x - mean)
	}
	return sq / float64(len(v))
}

// RangeOfMotionFrom derives joint-angle extrema proxies from the
// gyroscope triad. Axis mapping: x maps to the hip, y to the knee and
// z to the ankle; extrema are scaled by gyroDegreesScale.
func RangeOfMotionFrom(gyro sensorlog.Triad) RangeOfMotion {
	hipMax, hipMin := extrema(gyro.X)
	kneeMax, kneeMin := extrema(gyro.Y)
	ankleMax, ankleMin := extrema(gyro.Z)

	return RangeOfMotion{
		HipFlexion:          hipMax * gyroDegreesScale,
		HipExtension:        hipMin * gyroDegreesScale,
		KneeFlexion:         kneeMax * gyroDegreesScale,
		KneeExtension:       kneeMin * gyroDegreesScale,
		AnkleDorsiflexion:   ankleMax * gyroDegreesScale,
		AnklePlantarflexion: ankleMin * gyroDegreesScale,
	}
}

func extrema(v []float64) (max, min float64) {
	if len(v) == 0 {
		return 0, 0
	}
	max, min = v[0], v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
		if x < min {
			min = x
		}
	}
	return max, min
}
