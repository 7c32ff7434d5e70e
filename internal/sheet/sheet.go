// Package sheet decodes spreadsheet files into model.Table rows.
package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// ErrUnsupported indicates a file format that cannot be decoded.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// Options selects what to read from a file.
type Options struct {
	// Sheet names the worksheet to read. Matching is case-insensitive.
	Sheet string
	// SheetIndex is 1-based and used when Sheet is empty. 0 means the first sheet.
	SheetIndex int
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// MaxRows stops after this many data rows. 0 reads everything.
	MaxRows int
}

// Read decodes path into a table, choosing the decoder by file extension.
func Read(path string, opt Options) (model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path, opt)
	case ".csv", ".tsv", ".txt":
		return readCSV(path, opt)
	}
	return model.Table{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// headerNames trims header cells, names blank ones by position and suffixes
// duplicates so every column has a distinct key.
func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if h == "" {
			h = "Column " + strconv.Itoa(i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = h + " (" + strconv.Itoa(n) + ")"
		}
		out[i] = h
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
