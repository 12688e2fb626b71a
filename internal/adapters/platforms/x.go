package platforms

import (
	"regexp"

	"postproof/internal/domain"
)

var xPostURL = regexp.MustCompile(`(?i)^https?://(www\.|mobile\.)?(x|twitter)\.com/[^/?#]+/status/\d+`)

// XAdapter verifies keywords in X (Twitter) posts.
type XAdapter struct {
	*fetcher
}

// NewXAdapter creates an X adapter.
func NewXAdapter(opts Options) *XAdapter {
	return &XAdapter{newFetcher(domain.PlatformX, xPostURL, resolveXPost, opts)}
}

// resolveXPost reads the first tweet item. Quoted text follows the tweet's
// own text.
func resolveXPost(items []any) (*domain.ResolvedPost, error) {
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			continue
		}
		if kind, _ := asString(item["type"]); kind != "tweet" {
			continue
		}
		if _, empty := item["noResults"]; empty {
			continue
		}

		fragments := []any{tweetText(item)}
		if quote, ok := asObject(item["quote"]); ok {
			fragments = append(fragments, tweetText(quote))
		}
		text := joinFragments(fragments...)
		if text == "" {
			return nil, domain.ErrNoPostText
		}

		return &domain.ResolvedPost{
			Text:     text,
			Likes:    countAt(item, "likeCount"),
			Comments: countAt(item, "replyCount"),
			Shares:   countAt(item, "retweetCount"),
		}, nil
	}
	return nil, domain.ErrNoValidPost
}

// tweetText prefers the untruncated text.
func tweetText(tweet map[string]any) string {
	if full := stringAt(tweet, "fullText"); full != "" {
		return full
	}
	return stringAt(tweet, "text")
}
