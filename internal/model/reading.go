package model

import "time"

// Reading is a single ambulatory blood-pressure measurement.
type Reading struct {
	PatientID string    `json:"patient_id"`
	Timestamp time.Time `json:"timestamp"`
	Systolic  float64   `json:"systolic"`
	Diastolic float64   `json:"diastolic"`
	HeartRate *float64  `json:"heart_rate,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Line      int       `json:"line"`
}

// Inverted reports a systolic value below the diastolic one. Such readings are
// flagged for review but kept.
func (r Reading) Inverted() bool { return r.Systolic < r.Diastolic }

// PatientSeries holds one patient's readings in ascending timestamp order.
type PatientSeries struct {
	PatientID string    `json:"patient_id"`
	Readings  []Reading `json:"readings"`
}

// Days counts distinct calendar days covered by the series.
func (s PatientSeries) Days() int {
	seen := map[string]struct{}{}
	for _, r := range s.Readings {
		seen[r.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}
