package headers

import (
	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// Confirm applies user overrides to the proposed mapping. An override takes
// its header away from any field it was suggested for. Overriding date or
// time drops a suggested timestamp column and vice versa. An empty header
// unmaps the field.
func (s Suggestion) Confirm(overrides map[model.LogicalField]string) model.ColumnMapping {
	m := s.Mapping()
	for _, f := range model.AllFields {
		h, ok := overrides[f]
		if !ok {
			continue
		}
		if h != "" {
			for _, other := range model.AllFields {
				if _, pinned := overrides[other]; !pinned && m.Get(other) == h {
					m = m.With(other, "")
				}
			}
		}
		switch f {
		case model.FieldTimestamp:
			if _, ok := overrides[model.FieldDate]; !ok {
				m.Date = ""
			}
			if _, ok := overrides[model.FieldTime]; !ok {
				m.Time = ""
			}
		case model.FieldDate, model.FieldTime:
			if _, ok := overrides[model.FieldTimestamp]; !ok {
				m.Timestamp = ""
			}
		}
		m = m.With(f, h)
	}
	return m
}

// Pending lists the fields that still need confirmation once overrides are
// applied. Any timestamp-related override settles the timestamp question.
func (s Suggestion) Pending(overrides map[model.LogicalField]string) []model.LogicalField {
	var out []model.LogicalField
	for _, f := range s.NeedsConfirmation() {
		if _, ok := overrides[f]; ok {
			continue
		}
		if f == model.FieldTimestamp || f == model.FieldDate || f == model.FieldTime {
			_, ts := overrides[model.FieldTimestamp]
			_, d := overrides[model.FieldDate]
			if ts || d {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}
