package variability

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// DefaultMinSample is the smallest sample for which SD and ARV are defined.
const DefaultMinSample = 2

// Describe computes basic statistics, SD, CV and ARV for values, which must
// be in chronological order. It returns ok=false for an empty sample.
func Describe(values []float64, minSample int) (s model.PeriodStatistics, ok bool) {
	if len(values) == 0 {
		return s, false
	}
	if minSample < DefaultMinSample {
		minSample = DefaultMinSample
	}
	data := stats.Float64Data(values)
	s.Count = len(values)
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Mean = Mean(values)
	if s.Count < minSample {
		return s, true
	}
	s.SD = SampleSD(values)
	s.CV = CV(s.SD, s.Mean)
	s.ARV = ARV(values)
	return s, true
}

// Mean is the arithmetic mean with a second-pass correction, clamped to the
// sample range. A constant sample returns its value exactly.
func Mean(values []float64) float64 {
	data := stats.Float64Data(values)
	lo, _ := data.Min()
	hi, _ := data.Max()
	if lo == hi {
		return lo
	}
	mean, _ := data.Mean()
	var resid float64
	for _, v := range values {
		resid += v - mean
	}
	mean += resid / float64(len(values))
	return math.Min(math.Max(mean, lo), hi)
}

// SampleSD is the n-1 standard deviation, nil for fewer than two values and
// exactly zero for a constant sample.
func SampleSD(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	mean := Mean(values)
	var ss, comp float64
	for _, v := range values {
		d := v - mean
		ss += d * d
		comp += d
	}
	n := float64(len(values))
	variance := (ss - comp*comp/n) / (n - 1)
	if variance < 0 || math.IsNaN(variance) {
		variance = 0
	}
	return model.Float(math.Sqrt(variance))
}

// CV is SD/mean as a percentage, nil when SD is nil or the mean is zero.
func CV(sd *float64, mean float64) *float64 {
	if sd == nil || mean == 0 {
		return nil
	}
	return model.Float(*sd / mean * 100)
}

// ARV is the mean absolute difference between consecutive values.
func ARV(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	var sum float64
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return model.Float(sum / float64(len(values)-1))
}
