package classify

import (
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Result holds the classification fields of one patient.
type Result struct {
	DippingPercent          *float64
	DippingPercentDiastolic *float64
	DippingCategory         model.DippingCategory
	MorningSurge            *float64
	Stage                   model.HypertensionStage
	PulsePressureMean       *float64
	Exclusions              []model.PatientExclusion
}

// Patient derives dipping, morning surge, stage and pulse pressure from the
// period statistics of one patient. nightSystolic holds the raw night-time
// systolic readings; readings is the full series.
func Patient(id string, periods []model.PeriodStatistics, nightSystolic []float64, readings []model.Reading, t Thresholds) Result {
	m := model.PatientMetrics{Periods: periods}
	mean := func(ms model.Measure, p model.Period) *float64 {
		if s, ok := m.Stats(ms, p); ok {
			return model.Float(s.Mean)
		}
		return nil
	}
	dayS, nightS := mean(model.MeasureSystolic, model.PeriodDay), mean(model.MeasureSystolic, model.PeriodNight)
	dayD, nightD := mean(model.MeasureDiastolic, model.PeriodDay), mean(model.MeasureDiastolic, model.PeriodNight)
	morning := mean(model.MeasureSystolic, model.PeriodMorning)

	r := Result{
		DippingPercent:          DippingPercent(dayS, nightS),
		DippingPercentDiastolic: DippingPercent(dayD, nightD),
		MorningSurge:            MorningSurge(morning, nightSystolic),
		Stage:                   Stage(mean(model.MeasureSystolic, model.PeriodFull), mean(model.MeasureDiastolic, model.PeriodFull)),
		PulsePressureMean:       PulsePressure(readings),
	}
	r.DippingCategory = Category(r.DippingPercent, t)

	exclude := func(metric, reason string) {
		r.Exclusions = append(r.Exclusions, model.PatientExclusion{PatientID: id, Metric: metric, Reason: reason})
	}
	switch {
	case dayS == nil && nightS == nil:
		exclude("dipping_percent", "no day or night readings")
	case dayS == nil:
		exclude("dipping_percent", "no day readings")
	case nightS == nil:
		exclude("dipping_percent", "no night readings")
	case r.DippingPercent == nil:
		exclude("dipping_percent", "day mean is zero")
	}
	switch {
	case morning == nil && len(nightSystolic) == 0:
		exclude("morning_surge", "no morning or night readings")
	case morning == nil:
		exclude("morning_surge", "no morning readings")
	case len(nightSystolic) == 0:
		exclude("morning_surge", "no night readings")
	}
	return r
}
