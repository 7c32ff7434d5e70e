package headers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func TestClassifyTurkishHeaders(t *testing.T) {
	s := Classify([]string{"Hasta No", "Tarih", "Saat", "SKB", "DKB"}, DefaultVocabulary(), DefaultThreshold)

	want := map[model.LogicalField]string{
		model.FieldPatientID: "Hasta No",
		model.FieldDate:      "Tarih",
		model.FieldTime:      "Saat",
		model.FieldSystolic:  "SKB",
		model.FieldDiastolic: "DKB",
	}
	for f, h := range want {
		fs := s.Field(f)
		assert.Equal(t, h, fs.Header, "field %s", f)
		assert.Greater(t, fs.Confidence, DefaultThreshold, "field %s", f)
		assert.False(t, fs.NeedsConfirmation, "field %s", f)
	}
	m := s.Mapping()
	assert.Equal(t, model.ColumnMapping{PatientID: "Hasta No", Date: "Tarih", Time: "Saat", Systolic: "SKB", Diastolic: "DKB"}, m)
	assert.Empty(t, s.NeedsConfirmation())
	require.NoError(t, m.Validate([]string{"Hasta No", "Tarih", "Saat", "SKB", "DKB"}))
}

func TestClassifyEnglishAndDiacritics(t *testing.T) {
	hs := []string{"Patient_ID", " Timestamp ", "Systolic (mmHg)", "Diastolic (mmHg)", "Nabız", "Notes"}
	s := Classify(hs, DefaultVocabulary(), 0)

	assert.Equal(t, "Patient_ID", s.Field(model.FieldPatientID).Header)
	assert.Equal(t, " Timestamp ", s.Field(model.FieldTimestamp).Header)
	assert.Equal(t, "Systolic (mmHg)", s.Field(model.FieldSystolic).Header)
	assert.InDelta(t, 0.9, s.Field(model.FieldSystolic).Confidence, 1e-9)
	assert.Equal(t, "Nabız", s.Field(model.FieldHeartRate).Header)
	assert.Equal(t, "Notes", s.Field(model.FieldNotes).Header)
	assert.Equal(t, " Timestamp ", s.Mapping().Timestamp)
}

func TestScoreExactBeatsSubstring(t *testing.T) {
	exact := Score("SBP", "sbp")
	token := Score("Office SBP", "sbp")
	sub := Score("OfficeSBPvalue", "sbp")
	assert.Equal(t, 1.0, exact)
	assert.Greater(t, exact, token)
	assert.Greater(t, token, sub)
	assert.Greater(t, sub, 0.0)
	assert.Equal(t, 0.0, Score("three", "hr"), "short phrases never match as substrings")
}

func TestClassifyTieBreaksOnColumnOrder(t *testing.T) {
	s := Classify([]string{"ID", "Systolic", "Systolic", "Diastolic", "Date"}, DefaultVocabulary(), 0)
	fs := s.Field(model.FieldSystolic)
	assert.Equal(t, 1, fs.Column)
}

func TestClassifyLowConfidenceNeedsConfirmation(t *testing.T) {
	s := Classify([]string{"subjectcode", "reading", "sysvalue", "diavalue"}, DefaultVocabulary(), 0)
	pending := s.NeedsConfirmation()
	assert.Contains(t, pending, model.FieldSystolic)
	assert.Contains(t, pending, model.FieldDiastolic)
	assert.Contains(t, pending, model.FieldTimestamp)
	assert.True(t, s.Field(model.FieldSystolic).NeedsConfirmation)
}

func TestLoadVocabularyMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("systolic:\n  es: [sistolica]\n"), 0o644))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Contains(t, v.Phrases(model.FieldSystolic), "sistolica")
	assert.Contains(t, v.Phrases(model.FieldSystolic), "skb")

	s := Classify([]string{"Paciente", "Fecha", "Sistólica"}, v, 0)
	assert.Equal(t, "Sistólica", s.Field(model.FieldSystolic).Header)
}

func TestParseVocabularyUnknownField(t *testing.T) {
	_, err := ParseVocabulary([]byte("blood_type:\n  en: [abo]\n"))
	require.Error(t, err)
}
