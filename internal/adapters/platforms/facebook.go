package platforms

import (
	"regexp"

	"postproof/internal/domain"
)

// Facebook post URLs need a path beyond the host.
var facebookPostURL = regexp.MustCompile(`(?i)^https?://((www\.|m\.|web\.)?facebook\.com|fb\.watch)/[^?#\s]+`)

// FacebookAdapter verifies keywords in Facebook posts.
type FacebookAdapter struct {
	*fetcher
}

// NewFacebookAdapter creates a Facebook adapter.
func NewFacebookAdapter(opts Options) *FacebookAdapter {
	return &FacebookAdapter{newFetcher(domain.PlatformFacebook, facebookPostURL, resolveFacebookPost, opts)}
}

// resolveFacebookPost reads the first item without an error that carries
// text or a shared post.
func resolveFacebookPost(items []any) (*domain.ResolvedPost, error) {
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			continue
		}
		if _, failed := item["error"]; failed {
			continue
		}
		_, hasText := asString(item["text"])
		shared, hasShared := asObject(item["sharedPost"])
		if !hasText && !hasShared {
			continue
		}

		text := joinFragments(item["text"], shared["text"])
		if text == "" {
			return nil, domain.ErrNoPostText
		}

		return &domain.ResolvedPost{
			Text:     text,
			Likes:    countAt(item, "likes"),
			Comments: countAt(item, "comments"),
			Shares:   countAt(item, "shares"),
		}, nil
	}
	return nil, domain.ErrNoValidPost
}
