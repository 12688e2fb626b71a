// Package domain contains the core business entities and rules.
package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies a supported social network.
type Platform string

const (
	PlatformX        Platform = "x"
	PlatformThreads  Platform = "threads"
	PlatformFacebook Platform = "facebook"
	PlatformLinkedIn Platform = "linkedin"
)

// Platforms lists every supported platform in detection order.
var Platforms = []Platform{PlatformX, PlatformThreads, PlatformFacebook, PlatformLinkedIn}

// hostPatterns recognises a platform by hostname. The hostnames do not
// overlap, so the order of evaluation does not change the outcome.
var hostPatterns = []struct {
	platform Platform
	re       *regexp.Regexp
}{
	{PlatformX, regexp.MustCompile(`(?i)^https?://(www\.|mobile\.)?(x|twitter)\.com([/?#]|$)`)},
	{PlatformThreads, regexp.MustCompile(`(?i)^https?://(www\.)?threads\.(com|net)([/?#]|$)`)},
	{PlatformFacebook, regexp.MustCompile(`(?i)^https?://((www\.|m\.|web\.)?facebook\.com|fb\.watch)([/?#]|$)`)},
	// Profile and company pages live on the same host, only these paths are posts.
	{PlatformLinkedIn, regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/(posts|feed/update)/`)},
}

// String returns the platform identifier.
func (p Platform) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform parses a platform identifier such as "threads".
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
	return p, nil
}

// DetectPlatform classifies a post URL by its hostname.
// Returns an error wrapping ErrUnsupportedPlatform if nothing matches.
func DetectPlatform(rawURL string) (Platform, error) {
	candidate := strings.TrimSpace(rawURL)
	for _, hp := range hostPatterns {
		if hp.re.MatchString(candidate) {
			return hp.platform, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, rawURL)
}

// NormalizeURL reduces a post URL to origin plus path so link variants of the
// same post (tracking parameters, fragments) collapse to one key.
// Input that is not an absolute URL is returned unchanged.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return scheme + "://" + host + path
}
