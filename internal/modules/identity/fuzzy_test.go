package identity

import "testing"

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		target    string
		threshold int
		want      bool
	}{
		{"exact", "john", "john", 100, true},
		{"containment input in target", "oh", "john", 100, true},
		{"containment target in input", "johnson", "john", 100, true},
		{"missing char scores full", "jon", "john", 60, true},
		{"unrelated", "xyz", "john", 60, false},
		{"transposition", "jhon", "john", 60, true},
		{"too short input", "j", "john", 10, false},
		{"too short target", "john", "j", 10, false},
		{"case and punctuation stripped", "J.O'N", "jon", 60, true},
		{"digits participate", "ab12", "ab12", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyMatch(tt.input, tt.target, tt.threshold)
			if got != tt.want {
				t.Errorf("FuzzyMatch(%q, %q, %d) = %v, want %v",
					tt.input, tt.target, tt.threshold, got, tt.want)
			}
		})
	}
}

// The lookahead searches forward from the cursor, never backward: once a
// target character is consumed it cannot match again.
func TestFuzzyMatchForwardOnlyLookahead(t *testing.T) {
	// "aba" vs "ab": a (cursor->1), b (cursor->2), then the second 'a'
	// finds nothing ahead. 2 matches / min(3,2) = 100%.
	if !FuzzyMatch("aba", "ab", 100) {
		t.Error("aba vs ab should score 100")
	}
	// "baa" vs "ab": b consumes through index 1, leaving nothing for
	// either 'a'. 1 match / 2 = 50%.
	if FuzzyMatch("baa", "ab", 60) {
		t.Error("baa vs ab should score 50, below 60")
	}
}

func TestFuzzyMatchCountsCharactersNotBytes(t *testing.T) {
	// "zoé" is three characters (five bytes); z and o match "zoey" for
	// 2 of min(3,4) = 66.6. Byte counting would dilute that to 50.
	if !FuzzyMatch("zoé", "zoey", 60) {
		t.Error("zoé vs zoey should score above 60")
	}
	if FuzzyMatch("zoé", "zoey", 70) {
		t.Error("zoé vs zoey should score below 70")
	}
	// A single accented character is one character, below the minimum.
	if FuzzyMatch("é", "élan", 10) {
		t.Error("single-character input accepted")
	}
}

func TestFuzzyMatchScoreBoundary(t *testing.T) {
	// "alce" vs "alice": a,l match; c found ahead of cursor; e matches.
	// 4 of min(4,5) = 100.
	if !FuzzyMatch("alce", "alice", 100) {
		t.Error("alce vs alice should score 100")
	}
	// "axc" vs "abcdef": a matches, x misses, c found forward. 2/3 = 66.6.
	if FuzzyMatch("axc", "abcdef", 70) {
		t.Error("axc vs abcdef should score below 70")
	}
	if !FuzzyMatch("axc", "abcdef", 60) {
		t.Error("axc vs abcdef should score above 60")
	}
}
