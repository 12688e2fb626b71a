// Package fixtures provides scraped dataset payloads for testing the
// platform resolvers.
package fixtures

import "encoding/json"

// Items decodes a dataset payload the way the job runner client does.
// It panics on malformed fixtures.
func Items(payload string) []any {
	var items []any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		panic("fixtures: " + err.Error())
	}
	return items
}

// GenerateThreadsPost creates a Threads dataset with one post.
func GenerateThreadsPost() string {
	return `[
  {
    "thread_items": [
      {
        "post": {
          "like_count": 42,
          "text_post_app_info": {
            "direct_reply_count": 7,
            "repost_count": 3,
            "text_fragments": {
              "fragments": [
                {"plaintext": "POV: best cafe in town"},
                {"plaintext": "  "},
                {"plaintext": "#cafe"}
              ]
            }
          }
        }
      }
    ]
  }
]`
}

// GenerateThreadsWithoutText creates a Threads dataset whose post has only
// blank fragments.
func GenerateThreadsWithoutText() string {
	return `[
  {
    "thread_items": [
      {"post": {"text_post_app_info": {"text_fragments": {"fragments": [{"plaintext": " "}, {"plaintext": 5}]}}}}
    ]
  }
]`
}

// GenerateFacebookPost creates a Facebook dataset preceded by an error item.
func GenerateFacebookPost() string {
	return `[
  {"error": "not_available", "text": "ignored"},
  {"text": "Grand opening today", "likes": 120, "comments": 14, "shares": 9}
]`
}

// GenerateFacebookSharedPost creates a Facebook dataset for a reshare with
// no own text.
func GenerateFacebookSharedPost() string {
	return `[
  {"sharedPost": {"text": "Original announcement #launch"}, "likes": "many", "comments": -4}
]`
}

// GenerateLinkedInPost creates a LinkedIn dataset for a reshare with a
// comment of its own.
func GenerateLinkedInPost() string {
	return `[
  {
    "text": "Proud of the team",
    "resharedPost": {"text": "We are hiring engineers"},
    "numLikes": 88,
    "numComments": 12,
    "numShares": 4
  }
]`
}

// GenerateXPost creates an X dataset with a quote tweet.
func GenerateXPost() string {
	return `[
  {"noResults": true},
  {
    "type": "tweet",
    "text": "truncated...",
    "fullText": "Loving the new release of our app",
    "likeCount": 1500,
    "replyCount": 30,
    "retweetCount": 210,
    "quote": {"text": "Release notes are out"}
  }
]`
}

// GenerateXNoResults creates the dataset emitted for a missing tweet.
func GenerateXNoResults() string {
	return `[{"noResults": true}]`
}
