package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var errEmpty = errors.New("empty cell")

// cellString renders an identifier-like cell as trimmed text. Whole numbers
// lose their fractional part so 1001 and 1001.0 name the same patient.
func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", errEmpty
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "", errEmpty
		}
		return s, nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10), nil
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmpty
	}
	return s, nil
}

// cellNumber coerces a cell to float64, accepting locale formatted strings
// such as "1.234,5" or "142,0".
func cellNumber(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, errEmpty
	case string:
		return parseNumeric(x)
	case bool, time.Time:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}

func parseNumeric(s string) (float64, error) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errEmpty
	}
	var dec, thou rune
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		dec, thou = ',', '.'
	case cpos >= 0 && dpos >= 0:
		dec, thou = '.', ','
	case cpos >= 0:
		dec = ','
	default:
		dec = '.'
	}
	if thou != 0 {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	raw = strings.ReplaceAll(raw, " ", "")
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

var dayFirstLayouts = []string{
	"02.01.2006 15:04:05", "02.01.2006 15:04", "02.01.2006",
	"2.1.2006 15:04", "2.1.2006",
	"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006",
	"02-01-2006 15:04", "02-01-2006",
}

var monthFirstLayouts = []string{
	"01/02/2006 15:04:05", "01/02/2006 15:04", "01/02/2006",
	"1/2/2006 15:04:05", "1/2/2006 15:04", "1/2/2006",
	"1/2/2006 3:04 PM", "01/02/2006 3:04 PM",
}

var isoLayouts = []string{
	time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2006-01-02T15:04", "2006-01-02", "2006/01/02 15:04:05", "2006/01/02 15:04", "2006/01/02",
}

var clockLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "3:04:05 PM", "15.04"}

// cellTime coerces a cell to an instant. Numbers are Excel serial dates.
// Strings are read as ISO first, then day-first or month-first.
func cellTime(v any, dayFirst bool) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, errEmpty
	case time.Time:
		return x, nil
	case string:
		return parseTime(x, dayFirst)
	case bool:
		return time.Time{}, fmt.Errorf("not a date: %v", v)
	}
	serial, err := cast.ToFloat64E(v)
	if err != nil {
		return time.Time{}, err
	}
	return excelSerial(serial)
}

func excelSerial(serial float64) (time.Time, error) {
	if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, fmt.Errorf("not an excel date: %v", serial)
	}
	return excelize.ExcelDateToTime(serial, false)
}

func parseTime(s string, dayFirst bool) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, errEmpty
	}
	groups := [][]string{isoLayouts, dayFirstLayouts, monthFirstLayouts}
	if !dayFirst {
		groups = [][]string{isoLayouts, monthFirstLayouts, dayFirstLayouts}
	}
	for _, layouts := range groups {
		for _, l := range layouts {
			if t, err := time.ParseInLocation(l, raw, time.UTC); err == nil {
				return t, nil
			}
		}
	}
	if t, err := cast.ToTimeInDefaultLocationE(raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date/time: %q", s)
}

// cellClock coerces a cell to a time of day. Fractions of a day (Excel time
// cells) and full timestamps are both accepted.
func cellClock(v any, dayFirst bool) (time.Duration, error) {
	switch x := v.(type) {
	case nil:
		return 0, errEmpty
	case time.Time:
		return clockOf(x), nil
	case string:
		raw := strings.TrimSpace(x)
		if raw == "" {
			return 0, errEmpty
		}
		for _, l := range clockLayouts {
			if t, err := time.ParseInLocation(l, strings.ToUpper(raw), time.UTC); err == nil {
				return clockOf(t), nil
			}
		}
		if t, err := parseTime(raw, dayFirst); err == nil {
			return clockOf(t), nil
		}
		return 0, fmt.Errorf("unrecognised time: %q", x)
	case bool:
		return 0, fmt.Errorf("not a time: %v", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a time: %v", v)
	}
	frac := f - math.Floor(f)
	return time.Duration(math.Round(frac*86400)) * time.Second, nil
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
