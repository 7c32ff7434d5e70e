package model

import "strings"

// LogicalField names a column role the engine understands.
type LogicalField string

const (
	FieldPatientID LogicalField = "patient_id"
	FieldTimestamp LogicalField = "timestamp"
	FieldDate      LogicalField = "date"
	FieldTime      LogicalField = "time"
	FieldSystolic  LogicalField = "systolic"
	FieldDiastolic LogicalField = "diastolic"
	FieldHeartRate LogicalField = "heart_rate"
	FieldNotes     LogicalField = "notes"
)

// AllFields lists logical fields in canonical order.
var AllFields = []LogicalField{
	FieldPatientID, FieldTimestamp, FieldDate, FieldTime,
	FieldSystolic, FieldDiastolic, FieldHeartRate, FieldNotes,
}

// ParseLogicalField resolves a field name, accepting a few common aliases.
func ParseLogicalField(s string) (LogicalField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient_id", "patient", "id":
		return FieldPatientID, true
	case "timestamp", "datetime":
		return FieldTimestamp, true
	case "date":
		return FieldDate, true
	case "time":
		return FieldTime, true
	case "systolic", "sbp":
		return FieldSystolic, true
	case "diastolic", "dbp":
		return FieldDiastolic, true
	case "heart_rate", "hr", "pulse":
		return FieldHeartRate, true
	case "notes", "note":
		return FieldNotes, true
	}
	return "", false
}

// ColumnMapping maps logical fields to source header names. Empty means unmapped.
type ColumnMapping struct {
	PatientID string `json:"patient_id" yaml:"patient_id"`
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Time      string `json:"time,omitempty" yaml:"time,omitempty"`
	Systolic  string `json:"systolic" yaml:"systolic"`
	Diastolic string `json:"diastolic" yaml:"diastolic"`
	HeartRate string `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Get returns the header mapped to f.
func (m ColumnMapping) Get(f LogicalField) string {
	switch f {
	case FieldPatientID:
		return m.PatientID
	case FieldTimestamp:
		return m.Timestamp
	case FieldDate:
		return m.Date
	case FieldTime:
		return m.Time
	case FieldSystolic:
		return m.Systolic
	case FieldDiastolic:
		return m.Diastolic
	case FieldHeartRate:
		return m.HeartRate
	case FieldNotes:
		return m.Notes
	}
	return ""
}

// With returns a copy of m with f mapped to header.
func (m ColumnMapping) With(f LogicalField, header string) ColumnMapping {
	switch f {
	case FieldPatientID:
		m.PatientID = header
	case FieldTimestamp:
		m.Timestamp = header
	case FieldDate:
		m.Date = header
	case FieldTime:
		m.Time = header
	case FieldSystolic:
		m.Systolic = header
	case FieldDiastolic:
		m.Diastolic = header
	case FieldHeartRate:
		m.HeartRate = header
	case FieldNotes:
		m.Notes = header
	}
	return m
}

// CombinedTimestamp reports whether timestamps come from a single column.
// A date column with no time column is read as a combined timestamp.
func (m ColumnMapping) CombinedTimestamp() bool {
	return m.Timestamp != "" || m.Time == ""
}

// TimestampSource returns the single column holding full timestamps when
// CombinedTimestamp is true.
func (m ColumnMapping) TimestampSource() string {
	if m.Timestamp != "" {
		return m.Timestamp
	}
	return m.Date
}

// Validate checks required fields are present, distinct and exist in headers.
// A nil headers slice skips the existence check.
func (m ColumnMapping) Validate(headers []string) error {
	for _, f := range []LogicalField{FieldPatientID, FieldSystolic, FieldDiastolic} {
		if strings.TrimSpace(m.Get(f)) == "" {
			return &MappingError{Field: f, Reason: "required field is not mapped"}
		}
	}
	if m.Timestamp == "" && m.Date == "" {
		return &MappingError{Field: FieldTimestamp, Reason: "map either timestamp or date (+ time)"}
	}
	if m.Time != "" && m.Date == "" {
		return &MappingError{Field: FieldDate, Header: m.Time, Reason: "time column needs a date column"}
	}
	if m.Timestamp != "" && (m.Date != "" || m.Time != "") {
		return &MappingError{Field: FieldTimestamp, Header: m.Timestamp, Reason: "timestamp and date/time are mutually exclusive"}
	}

	var known map[string]struct{}
	if headers != nil {
		known = make(map[string]struct{}, len(headers))
		for _, h := range headers {
			known[h] = struct{}{}
		}
	}
	used := map[string]LogicalField{}
	for _, f := range AllFields {
		h := m.Get(f)
		if h == "" {
			continue
		}
		if prev, ok := used[h]; ok {
			return &MappingError{Field: f, Header: h, Reason: "header already mapped to " + string(prev)}
		}
		used[h] = f
		if known != nil {
			if _, ok := known[h]; !ok {
				return &MappingError{Field: f, Header: h, Reason: "header not found in input"}
			}
		}
	}
	return nil
}
