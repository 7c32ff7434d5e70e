package sheet

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func readXLSX(path string, opt Options) (model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	name, err := pickSheet(f, path, opt)
	if err != nil {
		return model.Table{}, err
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Table{}, fmt.Errorf("read sheet %q: %w", name, err)
	}

	t := model.Table{Name: filepath.Base(path)}
	if len(rows) == 0 {
		return t, nil
	}
	t.Headers = headerNames(rows[0])
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		cells := make(map[string]any, len(t.Headers))
		for j, h := range t.Headers {
			if j >= len(row) || strings.TrimSpace(row[j]) == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, line)
			if err != nil {
				return t, err
			}
			cells[h] = typedCell(f, name, axis, row[j])
		}
		t.Rows = append(t.Rows, model.RawRow{Line: line, Cells: cells})
		if opt.MaxRows > 0 && len(t.Rows) >= opt.MaxRows {
			break
		}
	}
	return t, nil
}

// pickSheet resolves the requested worksheet, defaulting to the first one.
func pickSheet(f *excelize.File, path string, opt Options) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.Sheet, filepath.Base(path), strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range: workbook '%s' has %d sheets", idx, filepath.Base(path), len(sheets))
	}
	return sheets[idx-1], nil
}

// typedCell keeps text cells as strings and turns numeric cells (including
// dates and times, which excelize reports as raw serials) into float64.
func typedCell(f *excelize.File, sheet, axis, raw string) any {
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return v
	}
	return raw
}
