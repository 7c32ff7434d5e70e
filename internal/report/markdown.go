// Package report renders analysis results as Markdown, JSON or XLSX.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bpvar-cli/internal/engine"
	"github.com/KaramelBytes/bpvar-cli/internal/headers"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// maxListed caps the skipped-row and quality-flag sections.
const maxListed = 50

// num formats a nullable value; nil renders as n/a.
func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// Markdown renders a full run report.
func Markdown(res *engine.Result) string {
	var b strings.Builder
	s := res.Summary
	b.WriteString("# Blood pressure variability report\n\n")
	if res.Source != "" {
		b.WriteString(fmt.Sprintf("- Source: %s\n", res.Source))
	}
	b.WriteString(fmt.Sprintf("- Run: %s\n", res.RunID))
	b.WriteString(fmt.Sprintf("- Rows read: %d (skipped %d)\n", res.RowsRead, s.SkippedRows))
	b.WriteString(fmt.Sprintf("- Patients: %d (analyzed %d)\n", s.Patients, s.Analyzed))
	w := res.Config.Windows
	b.WriteString(fmt.Sprintf("- Windows: day %s, night %s, morning %s\n", w.Day, w.Night, w.Morning))
	if s.Partial {
		b.WriteString(fmt.Sprintf("- **Partial result**: %d patients not processed: %s\n", len(s.NotProcessed), strings.Join(s.NotProcessed, ", ")))
	}

	b.WriteString("\n## Column mapping\n\n| Field | Header |\n|---|---|\n")
	for _, f := range model.AllFields {
		if h := res.Mapping.Get(f); h != "" {
			b.WriteString(fmt.Sprintf("| %s | %s |\n", f, safeVal(h)))
		}
	}

	b.WriteString("\n## Cohort\n\n| Dipping category | Patients |\n|---|---|\n")
	for _, c := range s.CategoryCounts {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", c.Category, c.Count))
	}
	b.WriteString("\n| Stage | Patients |\n|---|---|\n")
	for _, c := range s.StageCounts {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", c.Stage, c.Count))
	}
	b.WriteString("\n| Metric | N | Mean | Median | Min | Max |\n|---|---|---|---|---|---|\n")
	for _, d := range s.Distributions {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s |\n", d.Metric, d.N, num(d.Mean), num(d.Median), num(d.Min), num(d.Max)))
	}

	b.WriteString("\n## Patients\n\n")
	b.WriteString("| Patient | Readings | 24h SBP/DBP | SD 24h | CV 24h | ARV 24h | wSD | Dipping % | Category | Surge | Stage |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|\n")
	for _, m := range res.Metrics {
		full, _ := m.Stats(model.MeasureSystolic, model.PeriodFull)
		dia, _ := m.Stats(model.MeasureDiastolic, model.PeriodFull)
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f/%.1f | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			safeVal(m.PatientID), m.ReadingCount, full.Mean, dia.Mean,
			num(full.SD), num(full.CV), num(full.ARV), num(m.WeightedSDSystolic),
			num(m.DippingPercent), m.DippingCategory, num(m.MorningSurge), m.Stage))
	}

	if len(s.Excluded) > 0 {
		b.WriteString("\n## Exclusions\n\n")
		for _, e := range s.Excluded {
			if e.Metric == "" {
				b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(e.PatientID), e.Reason))
			} else {
				b.WriteString(fmt.Sprintf("- %s (%s): %s\n", safeVal(e.PatientID), e.Metric, e.Reason))
			}
		}
	}
	if len(res.Skipped) > 0 {
		b.WriteString("\n## Skipped rows\n\n")
		for i, w := range res.Skipped {
			if i == maxListed {
				b.WriteString(fmt.Sprintf("- ... and %d more\n", len(res.Skipped)-maxListed))
				break
			}
			b.WriteString("- " + safeVal(w.String()) + "\n")
		}
	}
	if len(res.Flags) > 0 {
		b.WriteString("\n## Quality flags\n\n")
		for i, f := range res.Flags {
			if i == maxListed {
				b.WriteString(fmt.Sprintf("- ... and %d more\n", len(res.Flags)-maxListed))
				break
			}
			b.WriteString(fmt.Sprintf("- line %d (%s) %s: %s\n", f.Line, safeVal(f.PatientID), f.Kind, f.Detail))
		}
	}
	return b.String()
}

// Suggestion renders the header classification for review.
func Suggestion(s headers.Suggestion) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Threshold: %.2f\n\n", s.Threshold))
	b.WriteString("| Field | Header | Confidence | Status |\n|---|---|---|---|\n")
	for _, fs := range s.Fields {
		h, status := fs.Header, "ok"
		if h == "" {
			h = "-"
			status = "not found"
		} else if fs.NeedsConfirmation {
			status = "confirm"
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %.2f | %s |\n", fs.Field, safeVal(h), fs.Confidence, status))
	}
	if nc := s.NeedsConfirmation(); len(nc) > 0 {
		names := make([]string, len(nc))
		for i, f := range nc {
			names[i] = string(f)
		}
		b.WriteString(fmt.Sprintf("\nNeeds confirmation: %s\n", strings.Join(names, ", ")))
	}
	return b.String()
}
