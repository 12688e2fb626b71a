package domain

import "errors"

var (
	// ErrInvalidInput is returned when a verification request fails validation.
	ErrInvalidInput = errors.New("invalid verification input")

	// ErrNoKeywords is returned when a request carries no keywords at all.
	ErrNoKeywords = errors.New("at least one keyword is required")

	// ErrUnsupportedPlatform is returned when a URL matches no known platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidPostURL is returned when a URL does not look like a post on
	// the platform it was routed to.
	ErrInvalidPostURL = errors.New("invalid post URL")

	// ErrTokenNotConfigured is returned on first use of an adapter when no
	// job runner credential is available.
	ErrTokenNotConfigured = errors.New("API token not configured")

	// ErrRemoteJob is returned when the scraping job could not be run.
	ErrRemoteJob = errors.New("remote scraping job failed")

	// ErrNoDataset is returned when the job finished without a dataset reference.
	ErrNoDataset = errors.New("run did not return a dataset")

	// ErrNoValidPost is returned when no dataset item has the expected shape.
	ErrNoValidPost = errors.New("dataset did not contain a valid post")

	// ErrNoPostText is returned when the matching item carries no text.
	ErrNoPostText = errors.New("dataset did not contain post text")

	// ErrSubmissionNotFound is returned when no submission matches a lookup.
	ErrSubmissionNotFound = errors.New("submission not found")
)

// ErrorKind groups verification errors by who has to act on them.
type ErrorKind string

const (
	KindNone                ErrorKind = "ok"
	KindValidation          ErrorKind = "validation"
	KindUnsupportedPlatform ErrorKind = "unsupported_platform"
	KindInvalidPostURL      ErrorKind = "invalid_post_url"
	KindConfiguration       ErrorKind = "configuration"
	KindRemoteJob           ErrorKind = "remote_job"
	KindContentShape        ErrorKind = "content_shape"
	KindUnknown             ErrorKind = "unknown"
)

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoKeywords):
		return KindValidation
	case errors.Is(err, ErrUnsupportedPlatform):
		return KindUnsupportedPlatform
	case errors.Is(err, ErrInvalidPostURL):
		return KindInvalidPostURL
	case errors.Is(err, ErrTokenNotConfigured):
		return KindConfiguration
	case errors.Is(err, ErrRemoteJob), errors.Is(err, ErrNoDataset):
		return KindRemoteJob
	case errors.Is(err, ErrNoValidPost), errors.Is(err, ErrNoPostText):
		return KindContentShape
	default:
		return KindUnknown
	}
}

// IsInputError reports whether err was caused by the request itself rather
// than by the scraping backend or the post content.
func IsInputError(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindUnsupportedPlatform, KindInvalidPostURL:
		return true
	}
	return false
}
