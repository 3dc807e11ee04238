package entities

import (
	"math"
	"strings"
)

// Match is one ranked catalog hit for a requirement.
type Match struct {
	Entry     CatalogEntry `json:"entry"`
	Score     float64      `json:"score"`
	Rationale string       `json:"rationale"`
}

// MatchResult holds matches ordered by descending score, ties by ascending entry id.
type MatchResult struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
}

// Best returns the top-ranked match.
func (r MatchResult) Best() (Match, bool) {
	if len(r.Matches) == 0 {
		return Match{}, false
	}
	return r.Matches[0], true
}

// AttributeDelta compares one wanted attribute against what a product offers.
type AttributeDelta struct {
	Name      string
	Want      SpecValue
	Have      SpecValue
	Present   bool
	Closeness float64
}

// CompareSpecs scores how closely have satisfies want, attribute by attribute.
//
// Numeric closeness is 1 - |a-b|/max(|a|,|b|), categorical closeness is 1 on a
// case-insensitive match and 0 otherwise, and a missing attribute counts as 0.
// The overall score is the mean closeness over the wanted attributes, in [0,1].
func CompareSpecs(want, have Specs) ([]AttributeDelta, float64) {
	if len(want) == 0 {
		return nil, 0
	}
	deltas := make([]AttributeDelta, 0, len(want))
	total := 0.0
	for _, name := range want.Keys() {
		w := want[name]
		h, ok := have[name]
		d := AttributeDelta{Name: name, Want: w, Have: h, Present: ok}
		if ok {
			d.Closeness = closeness(w, h)
		}
		total += d.Closeness
		deltas = append(deltas, d)
	}
	return deltas, total / float64(len(want))
}

func closeness(want, have SpecValue) float64 {
	switch {
	case want.IsNumeric() && have.IsNumeric():
		a, b := want.Float(), have.Float()
		scale := math.Max(math.Abs(a), math.Abs(b))
		if scale == 0 {
			return 1
		}
		c := 1 - math.Abs(a-b)/scale
		if c < 0 {
			return 0
		}
		return c
	case !want.IsNumeric() && !have.IsNumeric():
		if strings.EqualFold(strings.TrimSpace(want.Text), strings.TrimSpace(have.Text)) {
			return 1
		}
		return 0
	default:
		return 0
	}
}
