package variability

import (
	"sort"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/segment"
)

// Calculate returns statistics for every measure over every non-empty period
// of a sorted series. Sub-series keep their chronological order, so ARV only
// compares readings adjacent within the same period.
func Calculate(s model.PatientSeries, ws segment.Windows, minSample int) []model.PeriodStatistics {
	parts := ws.Split(s)
	var out []model.PeriodStatistics
	for _, p := range model.AllPeriods {
		rs := parts[p]
		for _, m := range model.AllMeasures {
			st, ok := Describe(Values(rs, m), minSample)
			if !ok {
				continue
			}
			st.Period, st.Measure = p, m
			out = append(out, st)
		}
	}
	return out
}

// Values extracts one measure from readings, skipping readings without it.
func Values(rs []model.Reading, m model.Measure) []float64 {
	out := make([]float64, 0, len(rs))
	for _, r := range rs {
		switch m {
		case model.MeasureSystolic:
			out = append(out, r.Systolic)
		case model.MeasureDiastolic:
			out = append(out, r.Diastolic)
		case model.MeasureHeartRate:
			if r.HeartRate != nil {
				out = append(out, *r.HeartRate)
			}
		}
	}
	return out
}

// WeightedSD combines day and night SD weighted by the configured window
// widths: (SD_day*h_day + SD_night*h_night) / 24.
func WeightedSD(day, night *float64, ws segment.Windows) *float64 {
	if day == nil || night == nil {
		return nil
	}
	return model.Float((*day*float64(ws.Day.Hours()) + *night*float64(ws.Night.Hours())) / 24)
}

// DayToDay describes the spread of per-calendar-day mean pressures. It is nil
// for recordings covering fewer than two days.
func DayToDay(s model.PatientSeries, minSample int) *model.DayToDayVariability {
	type acc struct{ sys, dia []float64 }
	days := map[string]*acc{}
	for _, r := range s.Readings {
		k := r.Timestamp.Format("2006-01-02")
		a := days[k]
		if a == nil {
			a = &acc{}
			days[k] = a
		}
		a.sys = append(a.sys, r.Systolic)
		a.dia = append(a.dia, r.Diastolic)
	}
	if len(days) < 2 {
		return nil
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sysMeans, diaMeans []float64
	for _, k := range keys {
		sm, _ := Describe(days[k].sys, minSample)
		dm, _ := Describe(days[k].dia, minSample)
		sysMeans = append(sysMeans, sm.Mean)
		diaMeans = append(diaMeans, dm.Mean)
	}
	sys, _ := Describe(sysMeans, minSample)
	dia, _ := Describe(diaMeans, minSample)
	return &model.DayToDayVariability{
		Days:           len(keys),
		SystolicSD:     sys.SD,
		SystolicCV:     sys.CV,
		SystolicARV:    sys.ARV,
		SystolicRange:  sys.Max - sys.Min,
		DiastolicSD:    dia.SD,
		DiastolicCV:    dia.CV,
		DiastolicARV:   dia.ARV,
		DiastolicRange: dia.Max - dia.Min,
	}
}
