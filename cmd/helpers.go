package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bpvar-cli/internal/headers"
	"github.com/KaramelBytes/bpvar-cli/internal/model"
	"github.com/KaramelBytes/bpvar-cli/internal/segment"
	"github.com/KaramelBytes/bpvar-cli/internal/sheet"
)

// sheetFlags are the input selection flags shared by analyze, analyze-batch and detect.
type sheetFlags struct {
	sheetName  string
	sheetIndex int
	delimiter  string
	maxRows    int
}

func (f sheetFlags) options() (sheet.Options, error) {
	opt := sheet.Options{Sheet: f.sheetName, SheetIndex: f.sheetIndex, MaxRows: f.maxRows}
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	return opt, nil
}

func readTable(path string, f sheetFlags) (model.Table, error) {
	opt, err := f.options()
	if err != nil {
		return model.Table{}, err
	}
	t, err := sheet.Read(path, opt)
	if err != nil {
		return model.Table{}, &inputError{err}
	}
	if len(t.Headers) == 0 {
		return model.Table{}, &inputError{fmt.Errorf("%s: no header row", path)}
	}
	return t, nil
}

// parseOverrides reads --map field=Header pairs.
func parseOverrides(pairs []string) (map[model.LogicalField]string, error) {
	out := map[model.LogicalField]string{}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --map %q (use field=Header)", kv)
		}
		f, ok := model.ParseLogicalField(k)
		if !ok {
			return nil, &model.MappingError{Field: model.LogicalField(strings.TrimSpace(k)), Reason: "unknown field"}
		}
		out[f] = strings.TrimSpace(v)
	}
	return out, nil
}

// confirmMapping classifies headers and applies overrides. Low-confidence
// fields are an error unless accept is set.
func confirmMapping(t model.Table, overrides map[model.LogicalField]string, accept bool) (model.ColumnMapping, headers.Suggestion, error) {
	vocab, err := cfg.Vocabulary()
	if err != nil {
		return model.ColumnMapping{}, headers.Suggestion{}, err
	}
	overrides = resolveOverrides(overrides, t.Headers)
	s := headers.Classify(t.Headers, vocab, cfg.ConfidenceThreshold)
	m := s.Confirm(overrides)
	if pending := s.Pending(overrides); len(pending) > 0 && !accept {
		names := make([]string, len(pending))
		for i, f := range pending {
			names[i] = string(f)
		}
		return m, s, &model.MappingError{
			Field:  pending[0],
			Reason: fmt.Sprintf("low confidence for %s; confirm with --map field=Header or --accept", strings.Join(names, ", ")),
		}
	}
	if err := m.Validate(t.Headers); err != nil {
		return m, s, err
	}
	return m, s, nil
}

// resolveOverrides maps each override to the input header it names. An exact
// match wins; otherwise headers are compared with surrounding spaces removed.
func resolveOverrides(overrides map[model.LogicalField]string, hdrs []string) map[model.LogicalField]string {
	out := make(map[model.LogicalField]string, len(overrides))
	for f, v := range overrides {
		out[f] = v
		if slices.Contains(hdrs, v) {
			continue
		}
		for _, h := range hdrs {
			if strings.TrimSpace(h) == v {
				out[f] = h
				break
			}
		}
	}
	return out
}

// parseWindow reads "8-22" style hour ranges.
func parseWindow(s string) (segment.Window, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return segment.Window{}, fmt.Errorf("invalid window %q (use start-end hours, e.g. 8-22)", s)
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(a))
	end, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return segment.Window{}, fmt.Errorf("invalid window %q (use start-end hours, e.g. 8-22)", s)
	}
	return segment.Window{Start: start, End: end}, nil
}
