package engine

import (
	"context"
	"strconv"

	"github.com/KaramelBytes/bpvar-cli/internal/classify"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/variability"
)

// Unit is the analysis of one patient. Units share no state and may run in
// any order or concurrently.
type Unit struct {
	PatientID string
	series    model.PatientSeries
	cfg       Config
}

// NewUnit builds the unit of work for one normalised series.
func NewUnit(s model.PatientSeries, cfg Config) Unit {
	return Unit{PatientID: s.PatientID, series: s, cfg: cfg}
}

// Units returns one unit per series, in patient id order.
func Units(series []model.PatientSeries, cfg Config) []Unit {
	out := make([]Unit, 0, len(series))
	for _, s := range series {
		out = append(out, NewUnit(s, cfg))
	}
	return out
}

// Run analyses the patient unless ctx is already done.
func (u Unit) Run(ctx context.Context) (model.PatientMetrics, error) {
	if err := ctx.Err(); err != nil {
		return model.PatientMetrics{}, err
	}
	return Analyze(u.series, u.cfg), nil
}

// Analyze derives the full metric set for one sorted series.
func Analyze(s model.PatientSeries, cfg Config) model.PatientMetrics {
	periods := variability.Calculate(s, cfg.Windows, cfg.MinSampleSize)
	night := cfg.Windows.Split(s)[model.PeriodNight]
	cls := classify.Patient(s.PatientID, periods, variability.Values(night, model.MeasureSystolic), s.Readings, cfg.Thresholds)

	m := model.PatientMetrics{
		PatientID:               s.PatientID,
		ReadingCount:            len(s.Readings),
		Days:                    s.Days(),
		Periods:                 periods,
		DippingPercent:          cls.DippingPercent,
		DippingPercentDiastolic: cls.DippingPercentDiastolic,
		DippingCategory:         cls.DippingCategory,
		MorningSurge:            cls.MorningSurge,
		PulsePressureMean:       cls.PulsePressureMean,
		Stage:                   cls.Stage,
		DayToDay:                variability.DayToDay(s, cfg.MinSampleSize),
		Exclusions:              cls.Exclusions,
	}

	sd := func(ms model.Measure, p model.Period) *float64 {
		if st, ok := m.Stats(ms, p); ok {
			return st.SD
		}
		return nil
	}
	m.WeightedSDSystolic = variability.WeightedSD(sd(model.MeasureSystolic, model.PeriodDay), sd(model.MeasureSystolic, model.PeriodNight), cfg.Windows)
	m.WeightedSDDiastolic = variability.WeightedSD(sd(model.MeasureDiastolic, model.PeriodDay), sd(model.MeasureDiastolic, model.PeriodNight), cfg.Windows)
	need := strconv.Itoa(max(cfg.MinSampleSize, variability.DefaultMinSample))
	for _, w := range []struct {
		metric string
		value  *float64
	}{
		{"weighted_sd_systolic", m.WeightedSDSystolic},
		{"weighted_sd_diastolic", m.WeightedSDDiastolic},
	} {
		if w.value == nil {
			m.Exclusions = append(m.Exclusions, model.PatientExclusion{
				PatientID: s.PatientID,
				Metric:    w.metric,
				Reason:    "day and night SD both need at least " + need + " readings",
			})
		}
	}
	return m
}
