package model

// RawRow is one decoded spreadsheet row keyed by original header.
// Cell values are nil, string, float64, int, int64, bool or time.Time.
type RawRow struct {
	// Line is the 1-based source line (header is line 1).
	Line  int
	Cells map[string]any
}

// Table is the ordered header list plus every decoded row.
type Table struct {
	Name    string
	Headers []string
	Rows    []RawRow
}

// Cell returns the value stored under header, or nil.
func (r RawRow) Cell(header string) any {
	if header == "" || r.Cells == nil {
		return nil
	}
	return r.Cells[header]
}
