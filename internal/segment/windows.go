package segment

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Window is a clock interval [Start, End) in whole hours, 0-24. A window
// with Start > End crosses midnight.
type Window struct {
	Start int `json:"start" yaml:"start" mapstructure:"start"`
	End   int `json:"end" yaml:"end" mapstructure:"end"`
}

// Contains reports whether the time of day of t falls in the window.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	start, end := w.Start*60, w.End*60
	if start <= end {
		return m >= start && m < end
	}
	return m >= start || m < end
}

// Hours is the configured width of the window.
func (w Window) Hours() int {
	if w.Start <= w.End {
		return w.End - w.Start
	}
	return 24 - w.Start + w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.Start, w.End)
}

// Windows holds the clock boundaries used to segment readings.
type Windows struct {
	Day     Window `json:"day" yaml:"day" mapstructure:"day"`
	Night   Window `json:"night" yaml:"night" mapstructure:"night"`
	Morning Window `json:"morning" yaml:"morning" mapstructure:"morning"`
}

// DefaultWindows returns day 08-22, night 00-06 and a morning window covering
// the first two hours of daytime.
func DefaultWindows() Windows {
	return Windows{
		Day:     Window{Start: 8, End: 22},
		Night:   Window{Start: 0, End: 6},
		Morning: Window{Start: 8, End: 10},
	}
}

// Validate rejects boundaries that cannot separate day from night.
func (ws Windows) Validate() error {
	for _, nw := range []struct {
		name string
		w    Window
	}{{"day", ws.Day}, {"night", ws.Night}, {"morning", ws.Morning}} {
		if nw.w.Start < 0 || nw.w.Start > 24 || nw.w.End < 0 || nw.w.End > 24 {
			return &model.ConfigurationError{Key: nw.name, Reason: fmt.Sprintf("hours must be within 0-24, got %s", nw.w)}
		}
		if nw.w.Hours() <= 0 || nw.w.Hours() >= 24 {
			return &model.ConfigurationError{Key: nw.name, Reason: fmt.Sprintf("window %s is empty or covers the whole day", nw.w)}
		}
	}
	for h := 0; h < 24; h++ {
		t := time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC)
		if ws.Day.Contains(t) && ws.Night.Contains(t) {
			return &model.ConfigurationError{Key: "night", Reason: fmt.Sprintf("night %s overlaps day %s", ws.Night, ws.Day)}
		}
	}
	return nil
}
