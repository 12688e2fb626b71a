package domain

import "strings"

// KeywordMatch is the outcome of checking keywords against post text.
type KeywordMatch struct {
	Matched     []string
	Missing     []string
	ContainsAll bool
}

// MatchKeywords checks every keyword against text using case-insensitive
// substring containment. Keywords are trimmed before comparison and blank
// ones are ignored. Order and duplicates follow the input, and each
// keyword is reported with its original spelling.
func MatchKeywords(text string, keywords []string) KeywordMatch {
	haystack := normalizeKeyword(text)

	match := KeywordMatch{
		Matched: []string{},
		Missing: []string{},
	}

	for _, keyword := range keywords {
		needle := normalizeKeyword(keyword)
		if needle == "" {
			continue
		}
		if strings.Contains(haystack, needle) {
			match.Matched = append(match.Matched, keyword)
		} else {
			match.Missing = append(match.Missing, keyword)
		}
	}

	match.ContainsAll = len(match.Missing) == 0
	return match
}

// HasKeyword reports whether at least one keyword is non-blank.
func HasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if normalizeKeyword(k) != "" {
			return true
		}
	}
	return false
}

func normalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
