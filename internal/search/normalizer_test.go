package search

import "testing"

func TestStripNoise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain query untouched", "meenakshi", "meenakshi"},
		{"strips singular", "shiva temple", "shiva"},
		{"strips plural", "temples of madurai", "of madurai"},
		{"case insensitive", "TEMPLE Shiva TeMpLeS", "Shiva"},
		{"whole words only", "templeton", "templeton"},
		{"noise only", "temple temples", ""},
		{"collapses whitespace", "  shiva   temple   parvati ", "shiva parvati"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripNoise(tt.in); got != tt.want {
				t.Errorf("StripNoise(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"1", 1},
		{"0", 1},
		{"-2", 1},
		{"abc", 1},
		{"", 1},
		{" 2 ", 2},
	}
	for _, tt := range tests {
		if got := ParsePage(tt.in); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in       string
		def, max int
		want     int
	}{
		{"25", 10, 0, 25},
		{"0", 10, 0, 10},
		{"junk", 10, 0, 10},
		{"", 15, 0, 15},
		{"500", 10, 100, 100},
		{"-1", 15, 0, 15},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.in, tt.def, tt.max); got != tt.want {
			t.Errorf("ParseLimit(%q, %d, %d) = %d, want %d", tt.in, tt.def, tt.max, got, tt.want)
		}
	}
}
