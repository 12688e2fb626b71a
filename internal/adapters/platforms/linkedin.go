package platforms

import (
	"regexp"

	"postproof/internal/domain"
)

var linkedInPostURL = regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/(posts|feed/update)/`)

// LinkedInAdapter verifies keywords in LinkedIn posts.
type LinkedInAdapter struct {
	*fetcher
}

// NewLinkedInAdapter creates a LinkedIn adapter.
func NewLinkedInAdapter(opts Options) *LinkedInAdapter {
	return &LinkedInAdapter{newFetcher(domain.PlatformLinkedIn, linkedInPostURL, resolveLinkedInPost, opts)}
}

func resolveLinkedInPost(items []any) (*domain.ResolvedPost, error) {
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			continue
		}
		if _, failed := item["error"]; failed {
			continue
		}
		if _, ok := asString(item["text"]); !ok {
			continue
		}

		reshared, _ := asObject(item["resharedPost"])
		text := joinFragments(item["text"], reshared["text"])
		if text == "" {
			return nil, domain.ErrNoPostText
		}

		return &domain.ResolvedPost{
			Text:     text,
			Likes:    countAt(item, "numLikes"),
			Comments: countAt(item, "numComments"),
			Shares:   countAt(item, "numShares"),
		}, nil
	}
	return nil, domain.ErrNoValidPost
}
