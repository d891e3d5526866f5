package search

import (
	"testing"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

func mkPlace(id uint, name, deity, city, arch string) place.Place {
	return place.Place{ID: id, Name: name, Deity: deity, City: city, Architecture: arch}
}

func rankedIDs(matches []Match) []uint {
	ids := make([]uint, len(matches))
	for i, m := range matches {
		ids[i] = m.Place.ID
	}
	return ids
}

func TestRankExactSubstring(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(1, "Sri Meenakshi Temple", "Parvati", "Madurai", "Dravidian"),
		mkPlace(2, "Kashi Vishwanath", "Shiva", "Varanasi", "Nagara"),
	}

	matches := m.Rank("meenakshi", candidates)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Place.ID != 1 {
		t.Errorf("expected place 1, got %d", matches[0].Place.ID)
	}
}

func TestRankTypoTolerance(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(1, "Sri Meenakshi Temple", "Parvati", "Madurai", "Dravidian"),
	}

	// One substitution and one trailing change inside the best window.
	matches := m.Rank("meenakshee", candidates)
	if len(matches) != 1 {
		t.Fatalf("expected typo query to match, got %d matches", len(matches))
	}
	if matches[0].Score <= 0 {
		t.Errorf("typo match should score worse than exact, got %f", matches[0].Score)
	}
}

func TestRankRejectsGibberish(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(1, "Ganesha Shrine", "Vishnu", "Pune", "Nagara"),
		mkPlace(2, "Riverbank Shrine", "Ganesha", "Pune", "Nagara"),
	}

	if matches := m.Rank("qqqqqq", candidates); len(matches) != 0 {
		t.Errorf("expected no matches for gibberish, got %d", len(matches))
	}
}

func TestRankNameOutweighsDeity(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(2, "Riverbank Shrine", "Ganesha", "Pune", "Nagara"),
		mkPlace(1, "Ganesha Shrine", "Vishnu", "Pune", "Nagara"),
	}

	matches := m.Rank("ganesha", candidates)
	if len(matches) != 2 {
		t.Fatalf("expected both candidates to match, got %d", len(matches))
	}
	if got := rankedIDs(matches); got[0] != 1 || got[1] != 2 {
		t.Errorf("expected name hit to outrank deity hit, got order %v", got)
	}
}

func TestRankStableOnTies(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(10, "Shiva Mandir", "Shiva", "Ujjain", "Nagara"),
		mkPlace(11, "Shiva Mandir", "Shiva", "Ujjain", "Nagara"),
	}

	matches := m.Rank("shiva", candidates)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if got := rankedIDs(matches); got[0] != 10 || got[1] != 11 {
		t.Errorf("tie order not preserved: %v", got)
	}
}

func TestRankNoiseOnlyQuery(t *testing.T) {
	m := NewMatcher()
	candidates := []place.Place{
		mkPlace(1, "Sri Meenakshi Temple", "Parvati", "Madurai", "Dravidian"),
	}

	if matches := m.Rank("temple temples", candidates); matches != nil {
		t.Errorf("noise-only query should match nothing, got %d matches", len(matches))
	}
}

func TestFieldScore(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		accept  bool
	}{
		{"exact substring", "meenakshi", "sri meenakshi temple", true},
		{"small typo", "meenakshee", "sri meenakshi temple", true},
		{"unrelated", "qqqqqq", "sri meenakshi temple", false},
		{"empty text", "meenakshi", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := fieldScore(tt.pattern, tt.text)
			if got := score <= DefaultThreshold; got != tt.accept {
				t.Errorf("fieldScore(%q, %q) = %f, accept = %t, want %t",
					tt.pattern, tt.text, score, got, tt.accept)
			}
		})
	}
}
