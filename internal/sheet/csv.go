package sheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

func readCSV(path string, opt Options) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, br)
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim

	t := model.Table{Name: filepath.Base(path)}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return t, fmt.Errorf("read header: %w", err)
	}
	t.Headers = headerNames(header)

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return t, fmt.Errorf("read csv: %w", err)
		}
		line, _ := r.FieldPos(0)
		if blank(rec) {
			continue
		}
		cells := make(map[string]any, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				cells[h] = rec[i]
			}
		}
		t.Rows = append(t.Rows, model.RawRow{Line: line, Cells: cells})
		if opt.MaxRows > 0 && len(t.Rows) >= opt.MaxRows {
			break
		}
	}
	return t, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab in the first
// line. European exports commonly use ';' because ',' is the decimal mark.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	peek, _ := br.Peek(4096)
	first := string(peek)
	if i := strings.IndexAny(first, "\r\n"); i >= 0 {
		first = first[:i]
	}
	best, n := ',', strings.Count(first, ",")
	for _, d := range []rune{';', '\t'} {
		if c := strings.Count(first, string(d)); c > n {
			best, n = d, c
		}
	}
	return best
}
