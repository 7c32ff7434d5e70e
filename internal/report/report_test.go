package report

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/headers"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func result(t *testing.T) *engine.Result {
	t.Helper()
	hs := []string{"id", "ts", "sys", "dia"}
	data := [][]any{
		{"P001", "2024-01-15 08:00", 142.0, 88.0},
		{"P001", "2024-01-15 12:00", 138.0, 85.0},
		{"P001", "2024-01-15 18:00", 145.0, 90.0},
		{"P002", "2024-01-15 10:00", 140.0, 90.0},
		{"P002", "2024-01-15 14:00", 150.0, 95.0},
		{"P002", "2024-01-16 01:00", 120.0, 70.0},
		{"P002", "2024-01-16 03:00", 118.0, 72.0},
		{"P002", "2024-01-16 04:00", 90.0, 110.0},
		{"P003", "bad", 120.0, 80.0},
	}
	tab := model.Table{Name: "abpm.csv", Headers: hs}
	for i, d := range data {
		cells := map[string]any{}
		for j, h := range hs {
			cells[h] = d[j]
		}
		tab.Rows = append(tab.Rows, model.RawRow{Line: i + 2, Cells: cells})
	}
	m := model.ColumnMapping{PatientID: "id", Timestamp: "ts", Systolic: "sys", Diastolic: "dia"}
	res, err := engine.Run(context.Background(), tab, m, engine.DefaultConfig(), zerolog.Nop(), engine.Options{})
	require.NoError(t, err)
	return res
}

func TestMarkdown(t *testing.T) {
	md := Markdown(result(t))
	assert.Contains(t, md, "# Blood pressure variability report")
	assert.Contains(t, md, "- Source: abpm.csv")
	assert.Contains(t, md, "- Patients: 3 (analyzed 2)")
	assert.Contains(t, md, "| timestamp | ts |")
	assert.Contains(t, md, "| undetermined | 1 |")
	assert.Contains(t, md, "| P001 | 3 | 141.7/87.7 |")
	assert.Contains(t, md, "- P001 (dipping_percent): no night readings")
	assert.Contains(t, md, "- P003: no valid readings after parsing")
	assert.Contains(t, md, "## Skipped rows")
	assert.Contains(t, md, "## Quality flags")
	assert.NotContains(t, md, "Partial result")
}

func TestJSONKeepsNulls(t *testing.T) {
	b, err := JSON(result(t))
	require.NoError(t, err)
	var doc struct {
		Patients []map[string]any `json:"patients"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Len(t, doc.Patients, 2)
	v, ok := doc.Patients[0]["dipping_percent"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestWriteXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(result(t), p))

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetPatients, SheetPeriods, SheetCohort, SheetSkipped, SheetFlags, SheetManifest}, f.GetSheetList())

	rows, err := f.GetRows(SheetPatients)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "patient_id", rows[0][0])
	assert.Equal(t, "P001", rows[1][0])
	assert.Equal(t, "P002", rows[2][0])

	v, err := f.GetCellValue(SheetManifest, "A2")
	require.NoError(t, err)
	assert.Equal(t, "run_id", v)
}

func TestSuggestion(t *testing.T) {
	s := headers.Classify([]string{"Hasta No", "Tarih", "Saat", "SKB", "DKB"}, headers.DefaultVocabulary(), headers.DefaultThreshold)
	out := Suggestion(s)
	assert.Contains(t, out, "| patient_id | Hasta No |")
	assert.Contains(t, out, "| systolic | SKB |")
}
