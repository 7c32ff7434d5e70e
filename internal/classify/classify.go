package classify

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Thresholds are the lower bounds, in percent, of the dipping categories.
// Each bound is inclusive: d == Normal is a normal dipper.
type Thresholds struct {
	NonDipper float64 `json:"non_dipper" yaml:"non_dipper" mapstructure:"non_dipper"`
	Normal    float64 `json:"normal" yaml:"normal" mapstructure:"normal"`
	Extreme   float64 `json:"extreme" yaml:"extreme" mapstructure:"extreme"`
}

// DefaultThresholds returns 0/10/20 percent.
func DefaultThresholds() Thresholds {
	return Thresholds{NonDipper: 0, Normal: 10, Extreme: 20}
}

// Validate requires strictly increasing bounds.
func (t Thresholds) Validate() error {
	if !(t.NonDipper < t.Normal && t.Normal < t.Extreme) {
		return &model.ConfigurationError{Key: "dipping", Reason: fmt.Sprintf("thresholds must increase: %g < %g < %g", t.NonDipper, t.Normal, t.Extreme)}
	}
	return nil
}

// DippingPercent is the night-time fall relative to the daytime mean. It is
// nil when either mean is missing or the day mean is zero.
func DippingPercent(dayMean, nightMean *float64) *float64 {
	if dayMean == nil || nightMean == nil || *dayMean == 0 {
		return nil
	}
	return model.Float((*dayMean - *nightMean) / *dayMean * 100)
}

// Category maps a dipping percentage to its category.
func Category(d *float64, t Thresholds) model.DippingCategory {
	switch {
	case d == nil:
		return model.Undetermined
	case *d < t.NonDipper:
		return model.ReverseDipper
	case *d < t.Normal:
		return model.NonDipper
	case *d < t.Extreme:
		return model.NormalDipper
	default:
		return model.ExtremeDipper
	}
}

// MorningSurge is the morning mean systolic minus the single lowest night
// systolic reading. Nil when either window is empty.
func MorningSurge(morningMean *float64, nightSystolic []float64) *float64 {
	if morningMean == nil || len(nightSystolic) == 0 {
		return nil
	}
	lowest, err := stats.Min(nightSystolic)
	if err != nil {
		return nil
	}
	return model.Float(*morningMean - lowest)
}

// Stage classifies mean pressures per the AHA/ACC 2017 guideline.
func Stage(sys, dia *float64) model.HypertensionStage {
	if sys == nil || dia == nil {
		return model.StageUnknown
	}
	s, d := *sys, *dia
	switch {
	case s > 180 || d > 120:
		return model.StageCrisis
	case s >= 140 || d >= 90:
		return model.Stage2
	case s >= 130 || d >= 80:
		return model.Stage1
	case s >= 120:
		return model.StageElevated
	default:
		return model.StageNormal
	}
}

// PulsePressure is the mean systolic-diastolic difference over readings.
func PulsePressure(rs []model.Reading) *float64 {
	if len(rs) == 0 {
		return nil
	}
	pp := make([]float64, len(rs))
	for i, r := range rs {
		pp[i] = r.Systolic - r.Diastolic
	}
	mean, err := stats.Mean(pp)
	if err != nil {
		return nil
	}
	return model.Float(mean)
}
