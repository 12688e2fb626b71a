package domain

// VerifyKeywordsInput is a request to verify that a post contains keywords.
// Platform is optional and derived from URL when empty.
type VerifyKeywordsInput struct {
	Platform Platform `json:"platform,omitempty" validate:"omitempty,oneof=x threads facebook linkedin"`
	URL      string   `json:"url" validate:"required,url"`
	Keywords []string `json:"keywords" validate:"required,min=1,has_keyword"`
}

// KeywordCheck is what a platform adapter needs to verify one post.
type KeywordCheck struct {
	URL      string
	Keywords []string
}

// ResolvedPost is the platform-neutral view of one scraped post.
// Text is never empty; counters default to zero.
type ResolvedPost struct {
	Text     string
	Likes    int
	Comments int
	Shares   int
}

// VerifyKeywordsResult reports which keywords a post contains.
type VerifyKeywordsResult struct {
	Platform        Platform `json:"platform"`
	URL             string   `json:"url"`
	Text            string   `json:"text"`
	ContainsAll     bool     `json:"containsAll"`
	MissingKeywords []string `json:"missingKeywords"`
	MatchedKeywords []string `json:"matchedKeywords"`
	Likes           int      `json:"likes"`
	Comments        int      `json:"comments"`
	Shares          int      `json:"shares"`
}

// NewVerifyKeywordsResult matches keywords against a resolved post.
func NewVerifyKeywordsResult(platform Platform, url string, post *ResolvedPost, keywords []string) *VerifyKeywordsResult {
	match := MatchKeywords(post.Text, keywords)
	return &VerifyKeywordsResult{
		Platform:        platform,
		URL:             url,
		Text:            post.Text,
		ContainsAll:     match.ContainsAll,
		MissingKeywords: match.Missing,
		MatchedKeywords: match.Matched,
		Likes:           post.Likes,
		Comments:        post.Comments,
		Shares:          post.Shares,
	}
}
