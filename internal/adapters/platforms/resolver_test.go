package platforms

import (
	"errors"
	"math"
	"testing"

	"postproof/internal/domain"
	"postproof/test/fixtures"
)

func TestResolveThreadsPost_JoinsFragmentsAndReadsCounters(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateThreadsPost())

	// Act
	post, err := resolveThreadsPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "POV: best cafe in town #cafe" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Likes != 42 || post.Comments != 7 || post.Shares != 3 {
		t.Errorf("counters: got %d/%d/%d, want 42/7/3", post.Likes, post.Comments, post.Shares)
	}
}

func TestResolveThreadsPost_BlankFragments_ReturnsNoPostText(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateThreadsWithoutText())

	// Act
	_, err := resolveThreadsPost(items)

	// Assert
	if !errors.Is(err, domain.ErrNoPostText) {
		t.Errorf("expected ErrNoPostText, got %v", err)
	}
}

func TestResolveThreadsPost_SkipsMalformedItems(t *testing.T) {
	// Arrange
	items := []any{
		"not an object",
		map[string]any{"thread_items": map[string]any{}},
		map[string]any{"thread_items": []any{}},
		map[string]any{"thread_items": []any{map[string]any{"post": map[string]any{}}}},
	}
	items = append(items, fixtures.Items(fixtures.GenerateThreadsPost())...)

	// Act
	post, err := resolveThreadsPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Likes != 42 {
		t.Errorf("Likes: got %d, want 42", post.Likes)
	}
}

func TestResolveFacebookPost_SkipsErrorItems(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateFacebookPost())

	// Act
	post, err := resolveFacebookPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "Grand opening today" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Likes != 120 || post.Comments != 14 || post.Shares != 9 {
		t.Errorf("counters: got %d/%d/%d", post.Likes, post.Comments, post.Shares)
	}
}

func TestResolveFacebookPost_SharedPostOnly_UsesSharedText(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateFacebookSharedPost())

	// Act
	post, err := resolveFacebookPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "Original announcement #launch" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Likes != 0 || post.Comments != 0 {
		t.Errorf("non-numeric and negative counters should read as 0, got %d/%d", post.Likes, post.Comments)
	}
}

func TestResolveLinkedInPost_IncludesResharedText(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateLinkedInPost())

	// Act
	post, err := resolveLinkedInPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "Proud of the team We are hiring engineers" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Likes != 88 || post.Comments != 12 || post.Shares != 4 {
		t.Errorf("counters: got %d/%d/%d", post.Likes, post.Comments, post.Shares)
	}
}

func TestResolveLinkedInPost_NoTextField_ReturnsNoValidPost(t *testing.T) {
	// Arrange
	items := []any{map[string]any{"resharedPost": map[string]any{"text": "hi"}}}

	// Act
	_, err := resolveLinkedInPost(items)

	// Assert
	if !errors.Is(err, domain.ErrNoValidPost) {
		t.Errorf("expected ErrNoValidPost, got %v", err)
	}
}

func TestResolveXPost_PrefersFullTextAndAppendsQuote(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateXPost())

	// Act
	post, err := resolveXPost(items)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Text != "Loving the new release of our app Release notes are out" {
		t.Errorf("Text: got %q", post.Text)
	}
	if post.Likes != 1500 || post.Comments != 30 || post.Shares != 210 {
		t.Errorf("counters: got %d/%d/%d", post.Likes, post.Comments, post.Shares)
	}
}

func TestResolveXPost_NoResults_ReturnsNoValidPost(t *testing.T) {
	// Arrange
	items := fixtures.Items(fixtures.GenerateXNoResults())

	// Act
	_, err := resolveXPost(items)

	// Assert
	if !errors.Is(err, domain.ErrNoValidPost) {
		t.Errorf("expected ErrNoValidPost, got %v", err)
	}
}

func TestResolvers_EmptyDataset_ReturnsNoValidPost(t *testing.T) {
	resolvers := map[string]resolver{
		"threads":  resolveThreadsPost,
		"facebook": resolveFacebookPost,
		"linkedin": resolveLinkedInPost,
		"x":        resolveXPost,
	}

	for name, resolve := range resolvers {
		t.Run(name, func(t *testing.T) {
			_, err := resolve(nil)
			if !errors.Is(err, domain.ErrNoValidPost) {
				t.Errorf("expected ErrNoValidPost, got %v", err)
			}
		})
	}
}

func TestCountAt(t *testing.T) {
	item := map[string]any{
		"float":    12.0,
		"int":      5,
		"negative": -3.0,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
		"string":   "10",
		"nested":   map[string]any{"n": 2.0},
	}

	tests := []struct {
		path []string
		want int
	}{
		{[]string{"float"}, 12},
		{[]string{"int"}, 5},
		{[]string{"negative"}, 0},
		{[]string{"nan"}, 0},
		{[]string{"inf"}, 0},
		{[]string{"string"}, 0},
		{[]string{"missing"}, 0},
		{[]string{"nested", "n"}, 2},
		{[]string{"float", "n"}, 0},
	}

	for _, tt := range tests {
		if got := countAt(item, tt.path...); got != tt.want {
			t.Errorf("countAt(%v): got %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestJoinFragments_FiltersBlankAndNonString(t *testing.T) {
	got := joinFragments(" a ", nil, "", 3, "b", "\t")
	if got != "a b" {
		t.Errorf("got %q, want %q", got, "a b")
	}
}
