package search

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

// DefaultThreshold is the per-field acceptance cutoff. Field scores run from
// 0 (identical) to 1 (no resemblance); a candidate is accepted when any field
// scores at or under the threshold.
const DefaultThreshold = 0.4

// fieldWeight raises a field's influence on the combined ranking score.
// Name matches dominate, deity matters more than location or style.
type fieldWeight struct {
	extract func(p *place.Place) string
	weight  float64
}

var defaultFields = []fieldWeight{
	{func(p *place.Place) string { return p.Name }, 2.0},
	{func(p *place.Place) string { return p.Deity }, 1.5},
	{func(p *place.Place) string { return p.City }, 1.0},
	{func(p *place.Place) string { return p.Architecture }, 1.0},
}

type Matcher struct {
	Threshold float64
	fields    []fieldWeight
	totalW    float64
}

func NewMatcher() *Matcher {
	var total float64
	for _, f := range defaultFields {
		total += f.weight
	}
	return &Matcher{Threshold: DefaultThreshold, fields: defaultFields, totalW: total}
}

// Match holds one accepted candidate with its combined score. Lower is better.
type Match struct {
	Place place.Place
	Score float64
}

// Rank scores every candidate against the query and returns the accepted
// ones ordered best-first. Ties keep their incoming order, which the store
// supplies newest-first.
func (m *Matcher) Rank(query string, candidates []place.Place) []Match {
	pattern := strings.ToLower(StripNoise(query))
	if pattern == "" {
		return nil
	}

	var matches []Match
	for i := range candidates {
		score, ok := m.evaluate(pattern, &candidates[i])
		if ok {
			matches = append(matches, Match{Place: candidates[i], Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches
}

// evaluate accepts a candidate when any single field clears the threshold,
// then ranks it by the weighted geometric combination of all field scores so
// a strong name hit outranks an equally strong city hit.
func (m *Matcher) evaluate(pattern string, p *place.Place) (float64, bool) {
	matched := false
	combined := 1.0
	for _, f := range m.fields {
		fs := fieldScore(pattern, strings.ToLower(f.extract(p)))
		if fs <= m.Threshold {
			matched = true
		}
		if fs < 0.001 {
			fs = 0.001
		}
		combined *= math.Pow(fs, f.weight/m.totalW)
	}
	return combined, matched
}

// fieldScore measures how closely pattern appears anywhere inside text,
// location-independent. 0 is a perfect hit, 1 is no resemblance. A window
// the size of the pattern slides across the text and the cheapest edit
// distance wins; the whole field is also tried for patterns longer than it.
func fieldScore(pattern, text string) float64 {
	if text == "" {
		return 1
	}
	if strings.Contains(text, pattern) {
		return 0
	}

	pr := []rune(pattern)
	tr := []rune(text)
	plen := len(pr)

	norm := plen
	if len(tr) > norm {
		norm = len(tr)
	}
	best := float64(levenshtein.ComputeDistance(pattern, text)) / float64(norm)

	if plen < len(tr) {
		for start := 0; start+plen <= len(tr); start++ {
			window := string(tr[start : start+plen])
			d := levenshtein.ComputeDistance(pattern, window)
			if s := float64(d) / float64(plen); s < best {
				best = s
			}
		}
	}

	if best > 1 {
		best = 1
	}
	return best
}
