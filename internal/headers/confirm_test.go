package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func TestConfirmOverridesMoveHeaders(t *testing.T) {
	hs := []string{"Hasta No", "Tarih", "Saat", "SKB", "DKB", "Kontrol"}
	s := Classify(hs, DefaultVocabulary(), DefaultThreshold)
	m := s.Confirm(nil)
	assert.Equal(t, "Hasta No", m.PatientID)
	assert.Equal(t, "Tarih", m.Date)
	assert.Equal(t, "Saat", m.Time)

	// swap the pressure columns and map a date-time column
	m = s.Confirm(map[model.LogicalField]string{
		model.FieldSystolic:  "DKB",
		model.FieldDiastolic: "SKB",
		model.FieldTimestamp: "Kontrol",
	})
	assert.Equal(t, "DKB", m.Systolic)
	assert.Equal(t, "SKB", m.Diastolic)
	assert.Equal(t, "Kontrol", m.Timestamp)
	assert.Empty(t, m.Date)
	assert.Empty(t, m.Time)
	assert.NoError(t, m.Validate(hs))
}

func TestConfirmStealsHeaderFromOtherField(t *testing.T) {
	hs := []string{"ID", "Date", "SBP", "DBP", "Pulse"}
	s := Classify(hs, DefaultVocabulary(), DefaultThreshold)
	m := s.Confirm(map[model.LogicalField]string{model.FieldNotes: "Pulse"})
	assert.Equal(t, "Pulse", m.Notes)
	assert.Empty(t, m.HeartRate)
	assert.NoError(t, m.Validate(hs))
}

func TestPending(t *testing.T) {
	hs := []string{"Subject Code", "When", "Upper", "Lower"}
	s := Classify(hs, DefaultVocabulary(), 0.99)
	assert.NotEmpty(t, s.Pending(nil))
	all := map[model.LogicalField]string{
		model.FieldPatientID: "Subject Code",
		model.FieldTimestamp: "When",
		model.FieldSystolic:  "Upper",
		model.FieldDiastolic: "Lower",
	}
	assert.Empty(t, s.Pending(all))
}
