package normalize

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Plausible pressure ranges. Readings outside them are flagged, not dropped.
const (
	minPlausibleSystolic  = 50
	maxPlausibleSystolic  = 300
	minPlausibleDiastolic = 30
	maxPlausibleDiastolic = 200
)

// Options controls cell interpretation.
type Options struct {
	// DayFirst reads ambiguous dates like 03/04/2024 as 3 April.
	DayFirst bool `json:"day_first" yaml:"day_first" mapstructure:"day_first"`
}

// DefaultOptions returns day-first parsing, matching the dd.mm.yyyy exports
// most ABPM devices produce.
func DefaultOptions() Options {
	return Options{DayFirst: true}
}

// Result is the normalised input: one sorted series per patient plus the
// manifest of everything that was skipped, flagged or excluded.
type Result struct {
	RowsRead int                      `json:"rows_read"`
	Series   []model.PatientSeries    `json:"series"`
	Skipped  []model.RowParseWarning  `json:"skipped"`
	Flags    []model.QualityFlag      `json:"flags"`
	Excluded []model.PatientExclusion `json:"excluded"`
}

// DroppedRows counts warnings that removed a whole row.
func (r *Result) DroppedRows() int {
	n := 0
	for _, w := range r.Skipped {
		if w.Dropped {
			n++
		}
	}
	return n
}

// Normalize applies mapping to table and groups valid readings per patient.
// Only a structurally invalid mapping returns an error; bad rows are recorded
// in Result.Skipped.
func Normalize(table model.Table, mapping model.ColumnMapping, opt Options) (*Result, error) {
	if err := mapping.Validate(table.Headers); err != nil {
		return nil, err
	}
	res := &Result{RowsRead: len(table.Rows)}
	byPatient := map[string][]model.Reading{}
	for _, row := range table.Rows {
		id, err := cellString(row.Cell(mapping.PatientID))
		if err != nil {
			res.Skipped = append(res.Skipped, warn(row, "", model.FieldPatientID, mapping.PatientID, "missing patient id", true))
			continue
		}
		if _, ok := byPatient[id]; !ok {
			byPatient[id] = nil
		}
		r, w := readRow(row, id, mapping, opt)
		if w != nil {
			res.Skipped = append(res.Skipped, *w)
			if w.Dropped {
				continue
			}
		}
		res.Flags = append(res.Flags, qualityFlags(r)...)
		byPatient[id] = append(byPatient[id], r)
	}

	ids := make([]string, 0, len(byPatient))
	for id := range byPatient {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		readings := byPatient[id]
		if len(readings) == 0 {
			res.Excluded = append(res.Excluded, model.PatientExclusion{PatientID: id, Reason: "no valid readings after parsing"})
			continue
		}
		SortReadings(readings)
		res.Series = append(res.Series, model.PatientSeries{PatientID: id, Readings: readings})
	}
	return res, nil
}

// SortReadings orders readings by timestamp. Equal timestamps fall back to
// the values themselves so the order never depends on input row order.
func SortReadings(rs []model.Reading) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Systolic != b.Systolic {
			return a.Systolic < b.Systolic
		}
		if a.Diastolic != b.Diastolic {
			return a.Diastolic < b.Diastolic
		}
		return a.Line < b.Line
	})
}

// readRow parses one row. A non-nil warning with Dropped set means the
// reading is unusable; otherwise the warning only concerns an optional cell.
func readRow(row model.RawRow, id string, m model.ColumnMapping, opt Options) (model.Reading, *model.RowParseWarning) {
	r := model.Reading{PatientID: id, Line: row.Line}

	ts, field, header, err := timestamp(row, m, opt)
	if err != nil {
		w := warn(row, id, field, header, "bad timestamp: "+reason(err), true)
		return r, &w
	}
	r.Timestamp = ts

	sys, err := pressure(row.Cell(m.Systolic))
	if err != nil {
		w := warn(row, id, model.FieldSystolic, m.Systolic, "bad systolic: "+reason(err), true)
		return r, &w
	}
	dia, err := pressure(row.Cell(m.Diastolic))
	if err != nil {
		w := warn(row, id, model.FieldDiastolic, m.Diastolic, "bad diastolic: "+reason(err), true)
		return r, &w
	}
	r.Systolic, r.Diastolic = sys, dia

	if m.Notes != "" {
		if s, err := cellString(row.Cell(m.Notes)); err == nil {
			r.Notes = s
		}
	}
	if m.HeartRate != "" {
		hr, err := pressure(row.Cell(m.HeartRate))
		switch {
		case err == nil:
			r.HeartRate = &hr
		case !errors.Is(err, errEmpty):
			w := warn(row, id, model.FieldHeartRate, m.HeartRate, "heart rate ignored: "+reason(err), false)
			return r, &w
		}
	}
	return r, nil
}

func timestamp(row model.RawRow, m model.ColumnMapping, opt Options) (ts time.Time, field model.LogicalField, header string, err error) {
	if m.CombinedTimestamp() {
		field = model.FieldTimestamp
		if m.Timestamp == "" {
			field = model.FieldDate
		}
		header = m.TimestampSource()
		ts, err = cellTime(row.Cell(header), opt.DayFirst)
		return ts, field, header, err
	}
	d, err := cellTime(row.Cell(m.Date), opt.DayFirst)
	if err != nil {
		return time.Time{}, model.FieldDate, m.Date, err
	}
	clock, err := cellClock(row.Cell(m.Time), opt.DayFirst)
	if err != nil {
		return time.Time{}, model.FieldTime, m.Time, err
	}
	return dateOf(d).Add(clock), model.FieldTimestamp, "", nil
}

func pressure(v any) (float64, error) {
	f, err := cellNumber(v)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", f)
	}
	return f, nil
}

func qualityFlags(r model.Reading) []model.QualityFlag {
	var out []model.QualityFlag
	add := func(kind, detail string) {
		out = append(out, model.QualityFlag{Line: r.Line, PatientID: r.PatientID, Kind: kind, Detail: detail})
	}
	if r.Inverted() {
		add("inverted", fmt.Sprintf("systolic %g below diastolic %g", r.Systolic, r.Diastolic))
	}
	if r.Systolic < minPlausibleSystolic || r.Systolic > maxPlausibleSystolic {
		add("systolic_range", fmt.Sprintf("systolic %g outside %d-%d", r.Systolic, minPlausibleSystolic, maxPlausibleSystolic))
	}
	if r.Diastolic < minPlausibleDiastolic || r.Diastolic > maxPlausibleDiastolic {
		add("diastolic_range", fmt.Sprintf("diastolic %g outside %d-%d", r.Diastolic, minPlausibleDiastolic, maxPlausibleDiastolic))
	}
	return out
}

func warn(row model.RawRow, id string, f model.LogicalField, header, why string, dropped bool) model.RowParseWarning {
	val := ""
	if header != "" {
		if v := row.Cell(header); v != nil {
			val = fmt.Sprint(v)
		}
	}
	return model.RowParseWarning{Line: row.Line, PatientID: id, Field: f, Value: val, Reason: why, Dropped: dropped}
}

func reason(err error) string {
	if errors.Is(err, errEmpty) {
		return "empty"
	}
	return err.Error()
}
