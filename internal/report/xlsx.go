package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bpvar-cli/internal/cohort"
	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Workbook sheet names, in order.
const (
	SheetPatients = "Patients"
	SheetPeriods  = "Periods"
	SheetCohort   = "Cohort"
	SheetSkipped  = "Skipped"
	SheetFlags    = "Flags"
	SheetManifest = "Manifest"
)

// cell converts a nullable value to an excelize cell value; nil leaves the cell empty.
func cell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Workbook builds an excel workbook with one sheet per result section.
// The caller must Close the returned file.
func Workbook(res *engine.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &sheetWriter{f: f, bold: bold}
	if err := f.SetSheetName("Sheet1", SheetPatients); err != nil {
		f.Close()
		return nil, err
	}

	// Patients: one row per analysed patient, columns follow the cohort metrics.
	head := []any{"patient_id", "readings", "days"}
	for _, m := range cohort.Metrics {
		head = append(head, m.Name)
	}
	head = append(head, "dipping_category", "stage")
	w.header(SheetPatients, head)
	for _, pm := range res.Metrics {
		row := []any{pm.PatientID, pm.ReadingCount, pm.Days}
		for _, m := range cohort.Metrics {
			row = append(row, cell(m.Value(pm)))
		}
		row = append(row, string(pm.DippingCategory), string(pm.Stage))
		w.row(SheetPatients, row)
	}

	w.sheet(SheetPeriods)
	w.header(SheetPeriods, []any{"patient_id", "period", "measure", "count", "mean", "min", "max", "sd", "cv", "arv"})
	for _, pm := range res.Metrics {
		for _, ps := range pm.Periods {
			w.row(SheetPeriods, []any{pm.PatientID, string(ps.Period), string(ps.Measure), ps.Count, ps.Mean, ps.Min, ps.Max, cell(ps.SD), cell(ps.CV), cell(ps.ARV)})
		}
	}

	s := res.Summary
	w.sheet(SheetCohort)
	w.header(SheetCohort, []any{"metric", "n", "mean", "median", "min", "max"})
	for _, d := range s.Distributions {
		w.row(SheetCohort, []any{d.Metric, d.N, cell(d.Mean), cell(d.Median), cell(d.Min), cell(d.Max)})
	}
	w.blank(SheetCohort)
	w.header(SheetCohort, []any{"dipping_category", "patients"})
	for _, c := range s.CategoryCounts {
		w.row(SheetCohort, []any{string(c.Category), c.Count})
	}
	w.blank(SheetCohort)
	w.header(SheetCohort, []any{"stage", "patients"})
	for _, c := range s.StageCounts {
		w.row(SheetCohort, []any{string(c.Stage), c.Count})
	}
	w.blank(SheetCohort)
	w.header(SheetCohort, []any{"excluded_patient", "metric", "reason"})
	for _, e := range s.Excluded {
		w.row(SheetCohort, []any{e.PatientID, e.Metric, e.Reason})
	}

	w.sheet(SheetSkipped)
	w.header(SheetSkipped, []any{"line", "patient_id", "field", "value", "reason", "dropped"})
	for _, sk := range res.Skipped {
		w.row(SheetSkipped, []any{sk.Line, sk.PatientID, string(sk.Field), sk.Value, sk.Reason, sk.Dropped})
	}

	w.sheet(SheetFlags)
	w.header(SheetFlags, []any{"line", "patient_id", "kind", "detail"})
	for _, fl := range res.Flags {
		w.row(SheetFlags, []any{fl.Line, fl.PatientID, fl.Kind, fl.Detail})
	}

	cfg := res.Config
	w.sheet(SheetManifest)
	w.header(SheetManifest, []any{"key", "value"})
	manifest := [][]any{
		{"run_id", res.RunID},
		{"source", res.Source},
		{"rows_read", res.RowsRead},
		{"skipped_rows", s.SkippedRows},
		{"patients", s.Patients},
		{"analyzed", s.Analyzed},
		{"partial", s.Partial},
		{"not_processed", strings.Join(s.NotProcessed, ", ")},
		{"day_window", cfg.Windows.Day.String()},
		{"night_window", cfg.Windows.Night.String()},
		{"morning_window", cfg.Windows.Morning.String()},
		{"dipping_thresholds", fmt.Sprintf("%g/%g/%g", cfg.Thresholds.NonDipper, cfg.Thresholds.Normal, cfg.Thresholds.Extreme)},
		{"min_sample_size", cfg.MinSampleSize},
	}
	for _, f := range model.AllFields {
		if h := res.Mapping.Get(f); h != "" {
			manifest = append(manifest, []any{"mapping." + string(f), h})
		}
	}
	for _, r := range manifest {
		w.row(SheetManifest, r)
	}

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// WriteXLSX saves the workbook for res at path.
func WriteXLSX(res *engine.Result, path string) error {
	f, err := Workbook(res)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	bold int
	next map[string]int
	err  error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) row(sheet string, vals []any) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = map[string]int{}
	}
	w.next[sheet]++
	axis, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, axis, &vals)
}

func (w *sheetWriter) header(sheet string, vals []any) {
	w.row(sheet, vals)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.next[sheet])
	last, _ := excelize.CoordinatesToCellName(len(vals), w.next[sheet])
	w.err = w.f.SetCellStyle(sheet, first, last, w.bold)
}

func (w *sheetWriter) blank(sheet string) {
	if w.next == nil {
		w.next = map[string]int{}
	}
	w.next[sheet]++
}
