package platforms

import (
	"regexp"

	"postproof/internal/domain"
)

// Threads post URLs are only checked by host.
var threadsPostURL = regexp.MustCompile(`(?i)^https?://(www\.)?threads\.(com|net)(/|$)`)

// ThreadsAdapter verifies keywords in Threads posts.
type ThreadsAdapter struct {
	*fetcher
}

// NewThreadsAdapter creates a Threads adapter. It does not connect until
// the first verification.
func NewThreadsAdapter(opts Options) *ThreadsAdapter {
	return &ThreadsAdapter{newFetcher(domain.PlatformThreads, threadsPostURL, resolveThreadsPost, opts)}
}

// resolveThreadsPost reads the first item carrying
// thread_items[0].post.text_post_app_info.text_fragments.fragments.
func resolveThreadsPost(items []any) (*domain.ResolvedPost, error) {
	for _, raw := range items {
		item, ok := asObject(raw)
		if !ok {
			continue
		}
		threadItems, ok := asArray(item["thread_items"])
		if !ok || len(threadItems) == 0 {
			continue
		}
		first, ok := asObject(threadItems[0])
		if !ok {
			continue
		}
		post, ok := objectAt(first, "post")
		if !ok {
			continue
		}
		info, ok := objectAt(post, "text_post_app_info")
		if !ok {
			continue
		}
		v, _ := lookup(info, "text_fragments", "fragments")
		fragments, ok := asArray(v)
		if !ok {
			continue
		}

		plaintexts := make([]any, 0, len(fragments))
		for _, fragment := range fragments {
			if obj, ok := asObject(fragment); ok {
				plaintexts = append(plaintexts, obj["plaintext"])
			}
		}
		text := joinFragments(plaintexts...)
		if text == "" {
			return nil, domain.ErrNoPostText
		}

		return &domain.ResolvedPost{
			Text:     text,
			Likes:    countAt(post, "like_count"),
			Comments: countAt(info, "direct_reply_count"),
			Shares:   countAt(info, "repost_count"),
		}, nil
	}
	return nil, domain.ErrNoValidPost
}
