// README: Ordered-subsequence fuzzy matcher for loose identity claims.
package identity

import (
	"strings"
	"unicode"
)

// FuzzyMatch reports whether input and target are similar enough to meet the
// threshold (0-100). It is an ordered subsequence walk with forward-only
// lookahead, not an edit distance: transpositions, dropped characters, and
// partial names all score high, which is the point. The score formula is
// matched / min(len(input), len(target)) * 100, where lengths count
// characters rather than bytes so accented names are not penalized. Callers
// depend on its exact behavior; do not swap in a different similarity metric.
func FuzzyMatch(input, target string, threshold int) bool {
	in := stripAlnum(input)
	tg := stripAlnum(target)
	inr := []rune(in)
	tgr := []rune(tg)
	if len(inr) < 2 || len(tgr) < 2 {
		return false
	}
	if in == tg || strings.Contains(in, tg) || strings.Contains(tg, in) {
		return true
	}

	matched := 0
	cursor := 0
	for _, ch := range inr {
		if cursor < len(tgr) && tgr[cursor] == ch {
			matched++
			cursor++
			continue
		}
		// Search forward from the cursor only; earlier target characters
		// are already consumed.
		if idx := indexRune(tgr[cursor:], ch); idx >= 0 {
			matched++
			cursor += idx + 1
		}
	}

	shorter := len(inr)
	if len(tgr) < shorter {
		shorter = len(tgr)
	}
	score := float64(matched) / float64(shorter) * 100
	return score >= float64(threshold)
}

func indexRune(rs []rune, ch rune) int {
	for i, r := range rs {
		if r == ch {
			return i
		}
	}
	return -1
}

func stripAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
