package domain_test

import (
	"reflect"
	"strings"
	"testing"

	"postproof/internal/domain"
)

func TestMatchKeywords_FullMatch(t *testing.T) {
	// Act
	match := domain.MatchKeywords("pov: best cafe in town", []string{"pov", "cafe"})

	// Assert
	if !reflect.DeepEqual(match.Matched, []string{"pov", "cafe"}) {
		t.Errorf("Matched: got %v, want [pov cafe]", match.Matched)
	}
	if len(match.Missing) != 0 {
		t.Errorf("Missing: got %v, want empty", match.Missing)
	}
	if !match.ContainsAll {
		t.Error("expected ContainsAll to be true")
	}
}

func TestMatchKeywords_PartialMatch(t *testing.T) {
	// Act
	match := domain.MatchKeywords("pov: great day", []string{"pov", "cafe"})

	// Assert
	if !reflect.DeepEqual(match.Matched, []string{"pov"}) {
		t.Errorf("Matched: got %v, want [pov]", match.Matched)
	}
	if !reflect.DeepEqual(match.Missing, []string{"cafe"}) {
		t.Errorf("Missing: got %v, want [cafe]", match.Missing)
	}
	if match.ContainsAll {
		t.Error("expected ContainsAll to be false")
	}
}

func TestMatchKeywords_CaseAndWhitespaceInsensitive_KeepsOriginalSpelling(t *testing.T) {
	// Act
	match := domain.MatchKeywords("Great CAFE vibes", []string{"  cafe "})

	// Assert
	if !reflect.DeepEqual(match.Matched, []string{"  cafe "}) {
		t.Errorf("Matched: got %q, want original keyword", match.Matched)
	}
}

func TestMatchKeywords_BlankKeywordsIgnored(t *testing.T) {
	// Act
	match := domain.MatchKeywords("pov: great day", []string{"pov", "   ", ""})

	// Assert
	if !reflect.DeepEqual(match.Matched, []string{"pov"}) {
		t.Errorf("Matched: got %q, want [pov]", match.Matched)
	}
	if len(match.Missing) != 0 {
		t.Errorf("Missing: got %q, want empty", match.Missing)
	}
}

func TestMatchKeywords_DuplicatesResolveIndependently(t *testing.T) {
	match := domain.MatchKeywords("cafe", []string{"cafe", "CAFE", "tea", "tea"})

	if !reflect.DeepEqual(match.Matched, []string{"cafe", "CAFE"}) {
		t.Errorf("Matched: got %v", match.Matched)
	}
	if !reflect.DeepEqual(match.Missing, []string{"tea", "tea"}) {
		t.Errorf("Missing: got %v", match.Missing)
	}
}

func TestMatchKeywords_OverlappingKeywordsBothMatch(t *testing.T) {
	match := domain.MatchKeywords("cafeteria", []string{"cafe", "feteria", "cafeteria"})

	if !match.ContainsAll {
		t.Errorf("expected overlapping keywords to match, missing %v", match.Missing)
	}
}

func TestMatchKeywords_NoKeywords_SlicesNotNil(t *testing.T) {
	match := domain.MatchKeywords("anything", nil)

	if match.Matched == nil || match.Missing == nil {
		t.Error("result slices must be non-nil")
	}
	if !match.ContainsAll {
		t.Error("no keywords means nothing is missing")
	}
}

func TestMatchKeywords_PartitionsNormalizedKeywordSet(t *testing.T) {
	texts := []string{"", "pov: best cafe", "Tea & Cake", "  spaced   out  "}
	keywordSets := [][]string{
		{"pov"},
		{"cafe", "CAFE", " tea ", "cake", "x"},
		{"spaced", "out", "  ", "missing"},
	}

	for _, text := range texts {
		for _, keywords := range keywordSets {
			match := domain.MatchKeywords(text, keywords)

			if match.ContainsAll != (len(match.Missing) == 0) {
				t.Errorf("ContainsAll inconsistent for %q %v", text, keywords)
			}

			want := map[string]bool{}
			for _, k := range keywords {
				if n := strings.ToLower(strings.TrimSpace(k)); n != "" {
					want[n] = true
				}
			}
			matched := normalizedSet(match.Matched)
			missing := normalizedSet(match.Missing)
			for k := range matched {
				if missing[k] {
					t.Errorf("keyword %q is both matched and missing", k)
				}
			}
			union := map[string]bool{}
			for k := range matched {
				union[k] = true
			}
			for k := range missing {
				union[k] = true
			}
			if !reflect.DeepEqual(union, want) {
				t.Errorf("union %v, want %v", union, want)
			}
		}
	}
}

func TestHasKeyword(t *testing.T) {
	if domain.HasKeyword([]string{" ", ""}) {
		t.Error("blank keywords should not count")
	}
	if !domain.HasKeyword([]string{" ", "pov"}) {
		t.Error("expected a non-blank keyword to count")
	}
}

func normalizedSet(keywords []string) map[string]bool {
	set := map[string]bool{}
	for _, k := range keywords {
		set[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return set
}
