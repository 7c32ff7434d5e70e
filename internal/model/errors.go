package model

import "fmt"

// MappingError reports an unusable column mapping. It is fatal for a run.
type MappingError struct {
	Field  LogicalField
	Header string
	Reason string
}

func (e *MappingError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("mapping %s -> %q: %s", e.Field, e.Header, e.Reason)
	}
	return fmt.Sprintf("mapping %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports an invalid analysis configuration.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

// RowParseWarning records a row (or one optional cell) that failed coercion.
// Dropped is false when only an optional value was discarded.
type RowParseWarning struct {
	Line      int          `json:"line"`
	PatientID string       `json:"patient_id,omitempty"`
	Field     LogicalField `json:"field"`
	Value     string       `json:"value,omitempty"`
	Reason    string       `json:"reason"`
	Dropped   bool         `json:"dropped"`
}

func (w RowParseWarning) String() string {
	return fmt.Sprintf("line %d: %s %q: %s", w.Line, w.Field, w.Value, w.Reason)
}

// PatientExclusion removes a patient from the cohort (Metric empty) or from a
// single metric.
type PatientExclusion struct {
	PatientID string `json:"patient_id"`
	Metric    string `json:"metric,omitempty"`
	Reason    string `json:"reason"`
}

// QualityFlag marks a kept reading that looks physiologically unusual.
type QualityFlag struct {
	Line      int    `json:"line"`
	PatientID string `json:"patient_id"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
}
