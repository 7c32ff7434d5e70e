package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func patient(id string, cat model.DippingCategory, dip *float64, sys24 float64) model.PatientMetrics {
	return model.PatientMetrics{
		PatientID:       id,
		DippingPercent:  dip,
		DippingCategory: cat,
		Stage:           model.Stage1,
		Periods: []model.PeriodStatistics{
			{Period: model.PeriodFull, Measure: model.MeasureSystolic, Count: 3, Mean: sys24},
		},
	}
}

func TestAggregateUsesNonNullDenominators(t *testing.T) {
	ms := []model.PatientMetrics{
		patient("P3", model.NormalDipper, model.Float(15), 130),
		patient("P1", model.Undetermined, nil, 140),
		patient("P2", model.NonDipper, model.Float(5), 150),
	}
	ms[1].Exclusions = []model.PatientExclusion{{PatientID: "P1", Metric: "dipping_percent", Reason: "no night readings"}}
	excluded := []model.PatientExclusion{{PatientID: "P0", Reason: "no valid readings after parsing"}}

	s := Aggregate(ms, excluded, nil, 4)

	assert.Equal(t, 4, s.Patients)
	assert.Equal(t, 3, s.Analyzed)
	assert.Equal(t, 4, s.SkippedRows)
	assert.False(t, s.Partial)
	assert.Equal(t, 1, s.CategoryCount(model.NormalDipper))
	assert.Equal(t, 1, s.CategoryCount(model.NonDipper))
	assert.Equal(t, 1, s.CategoryCount(model.Undetermined))
	assert.Equal(t, 0, s.CategoryCount(model.ExtremeDipper))
	require.Len(t, s.CategoryCounts, len(model.AllDippingCategories))

	dip, ok := s.Distribution("dipping_percent")
	require.True(t, ok)
	assert.Equal(t, 2, dip.N)
	assert.Equal(t, 10.0, *dip.Mean)
	assert.Equal(t, 10.0, *dip.Median)
	assert.Equal(t, 5.0, *dip.Min)
	assert.Equal(t, 15.0, *dip.Max)

	sys, _ := s.Distribution("mean_systolic_24h")
	assert.Equal(t, 3, sys.N)
	assert.Equal(t, 140.0, *sys.Median)

	ms[2].Periods = append(ms[2].Periods, model.PeriodStatistics{Period: model.PeriodNight, Measure: model.MeasureSystolic, Count: 2, Mean: 125, SD: model.Float(4)})
	ms[2].DayToDay = &model.DayToDayVariability{Days: 2, SystolicSD: model.Float(3), SystolicRange: 4}
	s = Aggregate(ms, excluded, nil, 4)
	night, ok := s.Distribution("mean_systolic_night")
	require.True(t, ok)
	assert.Equal(t, 1, night.N)
	assert.Less(t, night.N, sys.N)
	nightSD, _ := s.Distribution("sd_systolic_night")
	assert.Equal(t, 1, nightSD.N)
	assert.Equal(t, 4.0, *nightSD.Mean)
	d2d, ok := s.Distribution("day_to_day_range_systolic")
	require.True(t, ok)
	assert.Equal(t, 1, d2d.N)
	hr, ok := s.Distribution("arv_heart_rate_day")
	require.True(t, ok)
	assert.Equal(t, 0, hr.N)

	surge, _ := s.Distribution("morning_surge")
	assert.Equal(t, 0, surge.N)
	assert.Nil(t, surge.Mean)

	require.Len(t, s.Excluded, 2)
	assert.Equal(t, "P0", s.Excluded[0].PatientID)
	assert.Equal(t, "dipping_percent", s.Excluded[1].Metric)
}

func TestMetricsCoverEveryPeriodAndMeasure(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Metrics {
		assert.False(t, names[m.Name], "duplicate metric %s", m.Name)
		names[m.Name] = true
	}
	for _, n := range []string{"mean_systolic_24h", "mean_diastolic_day", "mean_systolic_morning", "cv_diastolic_night", "sd_heart_rate_24h", "arv_heart_rate_24h", "day_to_day_cv_diastolic"} {
		assert.True(t, names[n], n)
	}
	assert.Len(t, Metrics, len(model.AllPeriods)*len(model.AllMeasures)*4+14)
}

func TestAggregateOrderIndependent(t *testing.T) {
	a := []model.PatientMetrics{
		patient("A", model.NormalDipper, model.Float(12.5), 131.25),
		patient("B", model.ExtremeDipper, model.Float(22.1), 128.4),
		patient("C", model.ReverseDipper, model.Float(-3.3), 151.7),
	}
	b := []model.PatientMetrics{a[2], a[0], a[1]}
	assert.Equal(t, Aggregate(a, nil, nil, 0), Aggregate(b, nil, nil, 0))
}

func TestAggregatePartial(t *testing.T) {
	s := Aggregate([]model.PatientMetrics{patient("A", model.NormalDipper, model.Float(12), 130)}, nil, []string{"C", "B"}, 0)
	assert.True(t, s.Partial)
	assert.Equal(t, []string{"B", "C"}, s.NotProcessed)
	assert.Equal(t, 3, s.Patients)
	assert.Equal(t, 1, s.Analyzed)
}
