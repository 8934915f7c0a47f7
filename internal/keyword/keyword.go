// Package keyword matches free-text attributes against per-category keyword
// lists and reports how much of each list the text covers.
package keyword

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed dictionary.json
var dictionaryJSON []byte

// Category is one ordered keyword list plus its authoring hint.
type Category struct {
	ID       string   `json:"id"`
	Keywords []string `json:"keywords"`
	Guidance string   `json:"guidance"`
}

// Dictionary is an immutable category table loaded once at startup and
// injected wherever coverage is computed.
type Dictionary struct {
	categories map[string]Category
	order      []string
}

// Coverage reports how a text fared against one category.
type Coverage struct {
	Category        string   `json:"category"`
	MatchedKeywords []string `json:"matchedKeywords"`
	CoverageRate    float64  `json:"coverageRate"`
	Guidance        string   `json:"guidance"`
}

// NewDictionary builds a dictionary from explicit categories, preserving
// their order. Used directly by tests; production code uses Default.
func NewDictionary(categories []Category) Dictionary {
	d := Dictionary{categories: make(map[string]Category, len(categories))}
	for _, c := range categories {
		if _, dup := d.categories[c.ID]; dup {
			continue
		}
		d.categories[c.ID] = c
		d.order = append(d.order, c.ID)
	}
	return d
}

// Default returns the dictionary embedded in the binary.
func Default() Dictionary {
	var raw struct {
		Categories []Category `json:"categories"`
	}
	// The asset ships with the binary; a parse failure just yields an empty
	// dictionary and zero coverage everywhere.
	_ = json.Unmarshal(dictionaryJSON, &raw)
	return NewDictionary(raw.Categories)
}

// Categories lists the known category ids in dictionary order.
func (d Dictionary) Categories() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Guidance returns the static hint for a category, empty if unknown.
func (d Dictionary) Guidance(category string) string {
	return d.categories[category].Guidance
}

// KeywordCount returns the size of a category's keyword list.
func (d Dictionary) KeywordCount(category string) int {
	return len(d.categories[category].Keywords)
}

// Analyze checks the concatenated texts against each requested category.
// Matching is plain substring, case-sensitive, no stemming. Unknown
// categories yield an empty coverage entry rather than an error.
func (d Dictionary) Analyze(texts []string, categories []string) []Coverage {
	combined := strings.Join(texts, " ")
	out := make([]Coverage, 0, len(categories))
	for _, id := range categories {
		cat := d.categories[id]
		matched := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(combined, kw) {
				matched = append(matched, kw)
			}
		}
		rate := 0.0
		if len(cat.Keywords) > 0 {
			rate = float64(len(matched)) / float64(len(cat.Keywords))
		}
		out = append(out, Coverage{
			Category:        id,
			MatchedKeywords: matched,
			CoverageRate:    rate,
			Guidance:        cat.Guidance,
		})
	}
	return out
}
