// Package normalize turns raw OCR output into validated domain values.
// All knowledge about the game's consistent misread patterns lives here,
// keeping the OCR layer purely mechanical.
package normalize

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// MatchCutoff is the similarity score (0-100) a fuzzy match must reach to
// be accepted. Fixed across the whole pipeline.
const MatchCutoff = 80

// ApplyConfusion rewrites characters Tesseract habitually misreads in digit
// fields, using the catalog's confusion table.
func ApplyConfusion(text string, confusion map[string]string) string {
	for wrong, right := range confusion {
		text = strings.ReplaceAll(text, wrong, right)
	}
	return text
}

// ToInt extracts an integer from raw OCR text. The confusion table is
// applied first, then every non-digit character is dropped. Empty input
// (or input with no digits) yields 0.
func ToInt(text string, confusion map[string]string) int {
	text = ApplyConfusion(text, confusion)

	n := 0
	seen := false
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	if !seen {
		return 0
	}
	return n
}

// FuzzyMatch returns the candidate best matching text, or "" when no
// candidate scores at least minScore. An exact member of candidates is
// returned as-is regardless of minScore.
func FuzzyMatch(text string, candidates []string, minScore int) string {
	for _, c := range candidates {
		if text == c {
			return text
		}
	}

	best := ""
	bestScore := 0
	for _, c := range candidates {
		score := fuzzy.Ratio(text, c)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore < minScore {
		return ""
	}
	return best
}

// DefeatMarker is the literal first word the loot screen shows in place of
// a behemoth name when the party was slain.
const DefeatMarker = "Defeated"

// BehemothName reduces a raw behemoth name line to its basic species form
// and reports whether it is the defeat marker. Heroic and Patrol
// classifiers, two-line formatting and trailing junk are stripped.
func BehemothName(text string) (defeat bool, name string) {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "(Heroic)", "")
	text = strings.ReplaceAll(text, "Patrol", "")
	text = strings.TrimSpace(text)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false, ""
	}
	if fields[0] == DefeatMarker {
		return true, DefeatMarker
	}
	// The name is the last word; anything before it is read noise.
	return false, fields[len(fields)-1]
}

// Deaths maps the loot screen's bonus phrasing to a death count. The
// screen states the party "never" died, died "once" or "twice"; any other
// phrasing means three or more deaths, which the game caps at 3.
func Deaths(text string) int {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "never"):
		return 0
	case strings.Contains(text, "once"):
		return 1
	case strings.Contains(text, "twice"):
		return 2
	default:
		return 3
	}
}
