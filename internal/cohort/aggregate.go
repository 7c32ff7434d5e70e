package cohort

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Metric extracts one nullable value from a patient result.
type Metric struct {
	Name  string
	Value func(model.PatientMetrics) *float64
}

func periodStat(ms model.Measure, p model.Period, pick func(model.PeriodStatistics) *float64) func(model.PatientMetrics) *float64 {
	return func(m model.PatientMetrics) *float64 {
		if s, ok := m.Stats(ms, p); ok {
			return pick(s)
		}
		return nil
	}
}

func dayToDay(pick func(*model.DayToDayVariability) *float64) func(model.PatientMetrics) *float64 {
	return func(m model.PatientMetrics) *float64 {
		if m.DayToDay == nil {
			return nil
		}
		return pick(m.DayToDay)
	}
}

var periodStats = []struct {
	name string
	pick func(model.PeriodStatistics) *float64
}{
	{"mean", func(s model.PeriodStatistics) *float64 { return model.Float(s.Mean) }},
	{"sd", func(s model.PeriodStatistics) *float64 { return s.SD }},
	{"cv", func(s model.PeriodStatistics) *float64 { return s.CV }},
	{"arv", func(s model.PeriodStatistics) *float64 { return s.ARV }},
}

func periodSuffix(p model.Period) string {
	if p == model.PeriodFull {
		return "24h"
	}
	return string(p)
}

func buildMetrics() []Metric {
	var out []Metric
	for _, p := range model.AllPeriods {
		for _, ms := range model.AllMeasures {
			for _, st := range periodStats {
				out = append(out, Metric{
					Name:  fmt.Sprintf("%s_%s_%s", st.name, ms, periodSuffix(p)),
					Value: periodStat(ms, p, st.pick),
				})
			}
		}
	}
	return append(out,
		Metric{"weighted_sd_systolic", func(m model.PatientMetrics) *float64 { return m.WeightedSDSystolic }},
		Metric{"weighted_sd_diastolic", func(m model.PatientMetrics) *float64 { return m.WeightedSDDiastolic }},
		Metric{"dipping_percent", func(m model.PatientMetrics) *float64 { return m.DippingPercent }},
		Metric{"dipping_percent_diastolic", func(m model.PatientMetrics) *float64 { return m.DippingPercentDiastolic }},
		Metric{"morning_surge", func(m model.PatientMetrics) *float64 { return m.MorningSurge }},
		Metric{"pulse_pressure_mean", func(m model.PatientMetrics) *float64 { return m.PulsePressureMean }},
		Metric{"day_to_day_sd_systolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.SystolicSD })},
		Metric{"day_to_day_cv_systolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.SystolicCV })},
		Metric{"day_to_day_arv_systolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.SystolicARV })},
		Metric{"day_to_day_range_systolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return model.Float(d.SystolicRange) })},
		Metric{"day_to_day_sd_diastolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.DiastolicSD })},
		Metric{"day_to_day_cv_diastolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.DiastolicCV })},
		Metric{"day_to_day_arv_diastolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return d.DiastolicARV })},
		Metric{"day_to_day_range_diastolic", dayToDay(func(d *model.DayToDayVariability) *float64 { return model.Float(d.DiastolicRange) })},
	)
}

// Metrics lists the distributions reported in a CohortSummary, in order:
// mean, SD, CV and ARV for every period and measure, then the derived
// per-patient metrics.
var Metrics = buildMetrics()

// Aggregate merges patient results into a cohort summary. Results are sorted
// by patient id first so the summary never depends on completion order.
// excluded holds patients dropped before analysis; notProcessed those a
// cancelled run never reached.
func Aggregate(metrics []model.PatientMetrics, excluded []model.PatientExclusion, notProcessed []string, skippedRows int) model.CohortSummary {
	ms := make([]model.PatientMetrics, len(metrics))
	copy(ms, metrics)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].PatientID < ms[j].PatientID })

	np := append([]string(nil), notProcessed...)
	sort.Strings(np)

	s := model.CohortSummary{
		Analyzed:     len(ms),
		SkippedRows:  skippedRows,
		NotProcessed: np,
		Partial:      len(np) > 0,
	}

	ids := map[string]struct{}{}
	for _, m := range ms {
		ids[m.PatientID] = struct{}{}
	}
	for _, id := range np {
		ids[id] = struct{}{}
	}
	for _, e := range excluded {
		ids[e.PatientID] = struct{}{}
	}
	s.Patients = len(ids)

	cats := map[model.DippingCategory]int{}
	stages := map[model.HypertensionStage]int{}
	for _, m := range ms {
		cats[m.DippingCategory]++
		stages[m.Stage]++
	}
	for _, c := range model.AllDippingCategories {
		s.CategoryCounts = append(s.CategoryCounts, model.CategoryCount{Category: c, Count: cats[c]})
	}
	for _, st := range model.AllStages {
		s.StageCounts = append(s.StageCounts, model.StageCount{Stage: st, Count: stages[st]})
	}

	for _, metric := range Metrics {
		var vals []float64
		for _, m := range ms {
			if v := metric.Value(m); v != nil {
				vals = append(vals, *v)
			}
		}
		s.Distributions = append(s.Distributions, Describe(metric.Name, vals))
	}

	all := append([]model.PatientExclusion(nil), excluded...)
	for _, m := range ms {
		all = append(all, m.Exclusions...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].PatientID != all[j].PatientID {
			return all[i].PatientID < all[j].PatientID
		}
		return all[i].Metric < all[j].Metric
	})
	s.Excluded = all
	return s
}

// Describe summarises vals. N is always len(vals); statistics stay nil when
// there are no values.
func Describe(name string, vals []float64) model.Distribution {
	d := model.Distribution{Metric: name, N: len(vals)}
	if len(vals) == 0 {
		return d
	}
	data := stats.Float64Data(vals)
	mean, _ := data.Mean()
	med, _ := data.Median()
	lo, _ := data.Min()
	hi, _ := data.Max()
	d.Mean, d.Median, d.Min, d.Max = model.Float(mean), model.Float(med), model.Float(lo), model.Float(hi)
	return d
}
