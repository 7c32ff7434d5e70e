package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headers = []string{"Hasta No", "Tarih", "Saat", "SKB", "DKB", "Nabiz"}

func TestColumnMappingValidate(t *testing.T) {
	ok := ColumnMapping{PatientID: "Hasta No", Date: "Tarih", Time: "Saat", Systolic: "SKB", Diastolic: "DKB", HeartRate: "Nabiz"}
	require.NoError(t, ok.Validate(headers))

	tests := []struct {
		name  string
		m     ColumnMapping
		field LogicalField
	}{
		{"missing patient", ok.With(FieldPatientID, ""), FieldPatientID},
		{"missing systolic", ok.With(FieldSystolic, ""), FieldSystolic},
		{"missing diastolic", ok.With(FieldDiastolic, " "), FieldDiastolic},
		{"no timestamp source", ok.With(FieldDate, "").With(FieldTime, ""), FieldTimestamp},
		{"time without date", ok.With(FieldDate, ""), FieldDate},
		{"duplicate header", ok.With(FieldDiastolic, "SKB"), FieldDiastolic},
		{"unknown header", ok.With(FieldHeartRate, "Pulse"), FieldHeartRate},
		{"timestamp and date", ok.With(FieldTimestamp, "Tarih"), FieldTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate(headers)
			var me *MappingError
			require.True(t, errors.As(err, &me), "want MappingError, got %v", err)
			assert.Equal(t, tt.field, me.Field)
		})
	}
}

func TestColumnMappingDateOnlyIsCombined(t *testing.T) {
	m := ColumnMapping{PatientID: "Hasta No", Date: "Tarih", Systolic: "SKB", Diastolic: "DKB"}
	require.NoError(t, m.Validate(nil))
	assert.True(t, m.CombinedTimestamp())
	assert.Equal(t, "Tarih", m.TimestampSource())

	m.Time = "Saat"
	assert.False(t, m.CombinedTimestamp())
}

func TestParseLogicalField(t *testing.T) {
	f, ok := ParseLogicalField(" SBP ")
	require.True(t, ok)
	assert.Equal(t, FieldSystolic, f)
	_, ok = ParseLogicalField("bogus")
	assert.False(t, ok)
}
