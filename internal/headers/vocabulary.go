package headers

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/bpvar-cli/internal/model"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary maps each logical field to synonym phrases per language code.
type Vocabulary map[model.LogicalField]map[string][]string

// DefaultVocabulary returns a fresh copy of the built-in English/Turkish table.
func DefaultVocabulary() Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return v
}

// ParseVocabulary decodes a YAML vocabulary document.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	v := Vocabulary{}
	for name, langs := range raw {
		f, ok := model.ParseLogicalField(name)
		if !ok {
			return nil, fmt.Errorf("parse vocabulary: unknown field %q", name)
		}
		for lang, phrases := range langs {
			v.Add(f, lang, phrases...)
		}
	}
	return v, nil
}

// LoadVocabulary reads a YAML vocabulary file and merges it over the default table.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	extra, err := ParseVocabulary(data)
	if err != nil {
		return nil, err
	}
	return DefaultVocabulary().Merge(extra), nil
}

// Add appends phrases for field f in language lang.
func (v Vocabulary) Add(f model.LogicalField, lang string, phrases ...string) {
	if v[f] == nil {
		v[f] = map[string][]string{}
	}
	v[f][lang] = append(v[f][lang], phrases...)
}

// Merge returns a new vocabulary holding the phrases of v and other.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	out := Vocabulary{}
	for _, src := range []Vocabulary{v, other} {
		for f, langs := range src {
			for lang, phrases := range langs {
				out.Add(f, lang, phrases...)
			}
		}
	}
	return out
}

// Phrases returns every phrase for f with languages in sorted order.
func (v Vocabulary) Phrases(f model.LogicalField) []string {
	langs := make([]string, 0, len(v[f]))
	for lang := range v[f] {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	var out []string
	for _, lang := range langs {
		out = append(out, v[f][lang]...)
	}
	return out
}
