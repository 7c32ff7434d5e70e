package headers

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

// DefaultThreshold is the confidence below which a suggestion must be
// confirmed by a human before use.
const DefaultThreshold = 0.75

// minSubstringRunes keeps very short phrases ("hr", "id") from matching inside
// unrelated words.
const minSubstringRunes = 3

// FieldSuggestion is the best header found for one logical field.
type FieldSuggestion struct {
	Field             model.LogicalField `json:"field"`
	Header            string             `json:"header,omitempty"`
	Column            int                `json:"column"`
	Confidence        float64            `json:"confidence"`
	NeedsConfirmation bool               `json:"needs_confirmation"`
}

// Suggestion is the classifier's proposal for every logical field.
type Suggestion struct {
	Threshold float64           `json:"threshold"`
	Fields    []FieldSuggestion `json:"fields"`
}

// Score returns how well header matches phrase, in [0,1].
// A whole-token match always outranks a substring match.
func Score(header, phrase string) float64 {
	ht := tokens(header)
	pt := tokens(phrase)
	if len(ht) == 0 || len(pt) == 0 {
		return 0
	}
	if containsRun(ht, pt) {
		return 0.8 + 0.2*float64(len(pt))/float64(len(ht))
	}
	hc := strings.Join(ht, "")
	pc := strings.Join(pt, "")
	if utf8.RuneCountInString(pc) < minSubstringRunes || !strings.Contains(hc, pc) {
		return 0
	}
	return 0.4 + 0.3*float64(utf8.RuneCountInString(pc))/float64(utf8.RuneCountInString(hc))
}

func containsRun(hay, needle []string) bool {
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

type candidate struct {
	field  int
	column int
	score  float64
}

// Classify proposes a header for each logical field. It never fails: fields
// with no match come back with an empty header and zero confidence. Each
// header is assigned to at most one field; ties go to the earlier column.
func Classify(headerList []string, vocab Vocabulary, threshold float64) Suggestion {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var cands []candidate
	for fi, f := range model.AllFields {
		phrases := vocab.Phrases(f)
		for ci, h := range headerList {
			best := 0.0
			for _, p := range phrases {
				if s := Score(h, p); s > best {
					best = s
				}
			}
			if best > 0 {
				cands = append(cands, candidate{field: fi, column: ci, score: best})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].column != cands[j].column {
			return cands[i].column < cands[j].column
		}
		return cands[i].field < cands[j].field
	})

	out := Suggestion{Threshold: threshold, Fields: make([]FieldSuggestion, len(model.AllFields))}
	for i, f := range model.AllFields {
		out.Fields[i] = FieldSuggestion{Field: f, Column: -1, NeedsConfirmation: true}
	}
	usedCol := map[int]bool{}
	for _, c := range cands {
		fs := &out.Fields[c.field]
		if fs.Header != "" || usedCol[c.column] {
			continue
		}
		usedCol[c.column] = true
		fs.Header = headerList[c.column]
		fs.Column = c.column
		fs.Confidence = c.score
		fs.NeedsConfirmation = c.score < threshold
	}
	return out
}

// Field returns the suggestion for f.
func (s Suggestion) Field(f model.LogicalField) FieldSuggestion {
	for _, fs := range s.Fields {
		if fs.Field == f {
			return fs
		}
	}
	return FieldSuggestion{Field: f, Column: -1, NeedsConfirmation: true}
}

// Mapping turns the suggestion into a ColumnMapping. A combined timestamp
// column wins unless separate date and time columns were both found with
// higher confidence.
func (s Suggestion) Mapping() model.ColumnMapping {
	var m model.ColumnMapping
	for _, fs := range s.Fields {
		switch fs.Field {
		case model.FieldTimestamp, model.FieldDate, model.FieldTime:
			continue
		}
		m = m.With(fs.Field, fs.Header)
	}
	ts := s.Field(model.FieldTimestamp)
	d := s.Field(model.FieldDate)
	tm := s.Field(model.FieldTime)
	switch {
	case d.Header != "" && tm.Header != "" && (ts.Header == "" || min(d.Confidence, tm.Confidence) > ts.Confidence):
		m.Date, m.Time = d.Header, tm.Header
	case ts.Header != "":
		m.Timestamp = ts.Header
	case d.Header != "":
		m.Date = d.Header
	}
	return m
}

// NeedsConfirmation lists the fields of the proposed mapping that are missing
// or scored below the threshold. Optional fields are reported only when mapped.
func (s Suggestion) NeedsConfirmation() []model.LogicalField {
	m := s.Mapping()
	var out []model.LogicalField
	for _, f := range model.AllFields {
		fs := s.Field(f)
		mapped := m.Get(f) != ""
		required := f == model.FieldPatientID || f == model.FieldSystolic || f == model.FieldDiastolic
		if !mapped && !required {
			continue
		}
		if !mapped || fs.Confidence < s.Threshold {
			out = append(out, f)
		}
	}
	if m.Timestamp == "" && m.Date == "" {
		out = append(out, model.FieldTimestamp)
	}
	return out
}
