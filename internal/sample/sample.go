// Package sample generates synthetic ambulatory blood pressure recordings.
package sample

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Options controls the generated cohort.
type Options struct {
	Patients int
	// MaxDays bounds the recording length; each patient gets 1..MaxDays days.
	MaxDays int
	Seed    uint64
	// Language selects the header set: "tr" or "en".
	Language string
	Start    time.Time
}

// DefaultOptions returns a 20 patient Turkish-header cohort starting 15 Jan 2024.
func DefaultOptions() Options {
	return Options{
		Patients: 20,
		MaxDays:  3,
		Seed:     42,
		Language: "tr",
		Start:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

type layout struct {
	headers    []string
	dateFormat string
}

var layouts = map[string]layout{
	"tr": {[]string{"Hasta_No", "Tarih", "Saat", "SKB", "DKB", "Nabiz"}, "02.01.2006"},
	"en": {[]string{"Patient_ID", "Date", "Time", "SBP", "DBP", "HR"}, "2006-01-02"},
}

// schedule is the device measurement plan: hourly by day, every two hours at night.
var schedule = []int{0, 2, 4, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22}

// Generate builds a cohort table. The same options always yield the same table.
func Generate(opt Options) (model.Table, error) {
	lay, ok := layouts[opt.Language]
	if !ok {
		return model.Table{}, fmt.Errorf("unknown language %q (use tr or en)", opt.Language)
	}
	if opt.Patients <= 0 || opt.MaxDays <= 0 {
		return model.Table{}, fmt.Errorf("patients and days must be positive")
	}
	r := rand.New(rand.NewPCG(opt.Seed, opt.Seed^0x9e3779b97f4a7c15))
	t := model.Table{Name: "sample", Headers: lay.headers}
	line := 2
	for p := 1; p <= opt.Patients; p++ {
		id := fmt.Sprintf("H%03d", p)
		baseS := 110 + r.Float64()*50
		baseD := 65 + r.Float64()*30
		baseHR := 60 + r.Float64()*25
		// 70% dip by 10-20%, the rest between -5% and 10%
		dip := -5 + r.Float64()*15
		if r.Float64() > 0.3 {
			dip = 10 + r.Float64()*10
		}
		days := 1 + r.IntN(opt.MaxDays)
		for d := 0; d < days; d++ {
			day := opt.Start.AddDate(0, 0, d)
			for _, h := range schedule {
				ts := day.Add(time.Duration(h)*time.Hour + time.Duration(r.IntN(60))*time.Minute)
				var sys, dia float64
				switch {
				case h < 6:
					sys = baseS*(1-dip/100) + r.NormFloat64()*5
					dia = baseD*(1-dip/100*0.8) + r.NormFloat64()*3
				case h <= 9:
					sys = baseS + 5 + r.Float64()*10 + r.NormFloat64()*6
					dia = baseD + r.NormFloat64()*5
				default:
					sys = baseS + r.NormFloat64()*8
					dia = baseD + r.NormFloat64()*5
				}
				hr := baseHR + r.NormFloat64()*8
				t.Rows = append(t.Rows, model.RawRow{Line: line, Cells: map[string]any{
					lay.headers[0]: id,
					lay.headers[1]: ts.Format(lay.dateFormat),
					lay.headers[2]: ts.Format("15:04"),
					lay.headers[3]: clamp(sys, 80, 220),
					lay.headers[4]: clamp(dia, 50, 130),
					lay.headers[5]: clamp(hr, 45, 140),
				}})
				line++
			}
		}
	}
	return t, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Round(math.Max(lo, math.Min(hi, v)))
}

// WriteXLSX saves t as a single-sheet workbook with the header row first.
func WriteXLSX(t model.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	head := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		head[i] = h
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		vals := make([]any, len(t.Headers))
		for j, h := range t.Headers {
			vals[j] = row.Cell(h)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
