package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

var trHeaders = []string{"Hasta No", "Tarih", "Saat", "SKB", "DKB", "Nabiz"}

var trMapping = model.ColumnMapping{PatientID: "Hasta No", Date: "Tarih", Time: "Saat", Systolic: "SKB", Diastolic: "DKB", HeartRate: "Nabiz"}

func row(line int, vals ...any) model.RawRow {
	cells := map[string]any{}
	for i, h := range trHeaders {
		if i < len(vals) {
			cells[h] = vals[i]
		}
	}
	return model.RawRow{Line: line, Cells: cells}
}

func TestNormalizeGroupsAndSorts(t *testing.T) {
	table := model.Table{Headers: trHeaders, Rows: []model.RawRow{
		row(2, "H002", "15.01.2024", "12:00", "130", "80", "70"),
		row(3, "H001", "15.01.2024", "18:00", 145.0, 90.0, 72.0),
		row(4, "H001", "15.01.2024", "08:00", "142", "88", ""),
		row(5, 1001.0, "16.01.2024", "01:30", "120,5", "70", "65"),
	}}
	res, err := Normalize(table, trMapping, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Series, 3)

	assert.Equal(t, "1001", res.Series[0].PatientID)
	assert.Equal(t, 120.5, res.Series[0].Readings[0].Systolic)
	assert.Equal(t, time.Date(2024, 1, 16, 1, 30, 0, 0, time.UTC), res.Series[0].Readings[0].Timestamp)

	h1 := res.Series[1]
	assert.Equal(t, "H001", h1.PatientID)
	require.Len(t, h1.Readings, 2)
	assert.Equal(t, 8, h1.Readings[0].Timestamp.Hour())
	assert.Nil(t, h1.Readings[0].HeartRate)
	require.NotNil(t, h1.Readings[1].HeartRate)
	assert.Equal(t, 72.0, *h1.Readings[1].HeartRate)
	assert.Empty(t, res.Skipped)
}

func TestNormalizeSkipsBadRowsAndExcludesEmptyPatients(t *testing.T) {
	table := model.Table{Headers: trHeaders, Rows: []model.RawRow{
		row(2, "H001", "15.01.2024", "08:00", "142", "88"),
		row(3, "", "15.01.2024", "09:00", "142", "88"),
		row(4, "H001", "not a date", "09:00", "142", "88"),
		row(5, "H002", "15.01.2024", "10:00", "abc", "88"),
		row(6, "H002", "15.01.2024", "11:00", "140", "-5"),
		row(7, "H001", "15.01.2024", "12:00", "140", "85", "fast"),
	}}
	res, err := Normalize(table, trMapping, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Series, 1)
	assert.Len(t, res.Series[0].Readings, 2)
	assert.Equal(t, []model.PatientExclusion{{PatientID: "H002", Reason: "no valid readings after parsing"}}, res.Excluded)

	require.Len(t, res.Skipped, 5)
	assert.Equal(t, 4, res.DroppedRows())
	fields := []model.LogicalField{}
	for _, w := range res.Skipped {
		fields = append(fields, w.Field)
	}
	assert.Equal(t, []model.LogicalField{model.FieldPatientID, model.FieldDate, model.FieldSystolic, model.FieldDiastolic, model.FieldHeartRate}, fields)
	assert.False(t, res.Skipped[4].Dropped)
}

func TestNormalizeCombinedTimestampAndFlags(t *testing.T) {
	headers := []string{"id", "when", "sys", "dia"}
	m := model.ColumnMapping{PatientID: "id", Timestamp: "when", Systolic: "sys", Diastolic: "dia"}
	table := model.Table{Headers: headers, Rows: []model.RawRow{
		{Line: 2, Cells: map[string]any{"id": "P1", "when": "2024-01-15 23:30", "sys": 80, "dia": 95}},
		{Line: 3, Cells: map[string]any{"id": "P1", "when": time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), "sys": 320, "dia": 25}},
		{Line: 4, Cells: map[string]any{"id": "P1", "when": 45306.5, "sys": 120, "dia": 80}},
	}}
	res, err := Normalize(table, m, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Series, 1)
	rs := res.Series[0].Readings
	require.Len(t, rs, 3)
	assert.Equal(t, time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), rs[0].Timestamp)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), rs[1].Timestamp)
	assert.True(t, rs[2].Inverted())

	kinds := map[string]int{}
	for _, f := range res.Flags {
		kinds[f.Kind]++
	}
	assert.Equal(t, map[string]int{"inverted": 1, "systolic_range": 1, "diastolic_range": 1}, kinds)
}

func TestNormalizeRejectsInvalidMapping(t *testing.T) {
	_, err := Normalize(model.Table{Headers: trHeaders}, model.ColumnMapping{PatientID: "Hasta No"}, DefaultOptions())
	var me *model.MappingError
	require.True(t, errors.As(err, &me))
}

func TestNormalizeRowOrderInvariant(t *testing.T) {
	rows := []model.RawRow{
		row(2, "H001", "15.01.2024", "08:00", "142", "88"),
		row(3, "H001", "15.01.2024", "08:00", "139", "85"),
		row(4, "H001", "15.01.2024", "02:00", "120", "70"),
	}
	a, err := Normalize(model.Table{Headers: trHeaders, Rows: rows}, trMapping, DefaultOptions())
	require.NoError(t, err)
	rev := []model.RawRow{rows[2], rows[1], rows[0]}
	b, err := Normalize(model.Table{Headers: trHeaders, Rows: rev}, trMapping, DefaultOptions())
	require.NoError(t, err)

	sys := func(r *Result) []float64 {
		var out []float64
		for _, x := range r.Series[0].Readings {
			out = append(out, x.Systolic)
		}
		return out
	}
	assert.Equal(t, []float64{120, 139, 142}, sys(a))
	assert.Equal(t, sys(a), sys(b))
}

func TestCellCoercion(t *testing.T) {
	f, err := cellNumber("1.234,5")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, f)

	f, err = cellNumber(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)

	_, err = cellNumber(true)
	assert.Error(t, err)

	d, err := cellClock(0.25, true)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, d)

	d, err = cellClock("9:15 pm", true)
	require.NoError(t, err)
	assert.Equal(t, 21*time.Hour+15*time.Minute, d)

	ts, err := cellTime("03/04/2024", true)
	require.NoError(t, err)
	assert.Equal(t, time.April, ts.Month())
	ts, err = cellTime("03/04/2024", false)
	require.NoError(t, err)
	assert.Equal(t, time.March, ts.Month())
}
