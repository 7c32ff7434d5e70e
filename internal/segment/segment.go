package segment

import (
	"time"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Labels returns every period t belongs to. full_24h is always present.
// A reading between the day and night windows belongs to full_24h only.
func (ws Windows) Labels(t time.Time) []model.Period {
	out := make([]model.Period, 0, 3)
	if ws.Day.Contains(t) {
		out = append(out, model.PeriodDay)
	}
	if ws.Night.Contains(t) {
		out = append(out, model.PeriodNight)
	}
	if ws.Morning.Contains(t) {
		out = append(out, model.PeriodMorning)
	}
	return append(out, model.PeriodFull)
}

// Split distributes a sorted series over periods. Each period keeps the
// chronological order of the series; empty periods are absent.
func (ws Windows) Split(s model.PatientSeries) map[model.Period][]model.Reading {
	out := map[model.Period][]model.Reading{}
	for _, r := range s.Readings {
		for _, p := range ws.Labels(r.Timestamp) {
			out[p] = append(out[p], r)
		}
	}
	return out
}
