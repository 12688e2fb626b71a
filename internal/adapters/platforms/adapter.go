// Package platforms verifies keywords in social-media posts. Each platform
// adapter runs a scraping actor on the remote job runner, reads the emitted
// dataset, and resolves the post text and engagement counters from it.
package platforms

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sync"

	"postproof/internal/adapters/apify"
	"postproof/internal/domain"
	"postproof/pkg/log"
)

// TokenEnv is the environment variable read when no token is configured.
const TokenEnv = "APIFY_API_TOKEN"

// JobRunner runs a scraping actor and reads its dataset.
type JobRunner interface {
	CallActor(ctx context.Context, actorID string, input any) (*apify.Run, error)
	ListItems(ctx context.Context, datasetID string, limit int) ([]any, error)
}

// RunnerFactory builds a JobRunner for a token.
type RunnerFactory func(token string) JobRunner

// Options configures an adapter. Every field is optional.
type Options struct {
	// Token authenticates against the job runner. Falls back to TokenEnv.
	Token string
	// BaseURL overrides the job runner endpoint.
	BaseURL string
	// Actors is the actor catalogue. Defaults to DefaultActorConfig.
	Actors *ActorConfig
	// NewRunner overrides how the job runner client is built.
	NewRunner RunnerFactory
}

func (o Options) runnerFactory() RunnerFactory {
	if o.NewRunner != nil {
		return o.NewRunner
	}
	baseURL := o.BaseURL
	return func(token string) JobRunner {
		var opts []apify.Option
		if baseURL != "" {
			opts = append(opts, apify.WithBaseURL(baseURL))
		}
		return apify.New(token, opts...)
	}
}

type resolver func(items []any) (*domain.ResolvedPost, error)

// fetcher is the pipeline shared by all platform adapters.
type fetcher struct {
	platform domain.Platform
	postURL  *regexp.Regexp
	resolve  resolver
	opts     Options

	mu     sync.Mutex
	runner JobRunner
}

func newFetcher(platform domain.Platform, postURL *regexp.Regexp, resolve resolver, opts Options) *fetcher {
	if opts.Actors == nil {
		opts.Actors = DefaultActorConfig()
	}
	return &fetcher{
		platform: platform,
		postURL:  postURL,
		resolve:  resolve,
		opts:     opts,
	}
}

// Platform returns the platform this adapter serves.
func (f *fetcher) Platform() domain.Platform {
	return f.platform
}

// connect returns the cached runner, creating it on first use.
func (f *fetcher) connect() (JobRunner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.runner != nil {
		return f.runner, nil
	}

	token := f.opts.Token
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	if token == "" {
		return nil, domain.ErrTokenNotConfigured
	}

	f.runner = f.opts.runnerFactory()(token)
	return f.runner, nil
}

func (f *fetcher) actorInput(url string, actor Actor) map[string]any {
	input := map[string]any{
		"startUrls": []map[string]any{
			{"url": url, "method": "GET"},
		},
		"proxyConfiguration": map[string]any{
			"useApifyProxy":    true,
			"apifyProxyGroups": []string{f.opts.Actors.ProxyGroup()},
		},
	}
	if actor.LimitKey != "" {
		input[actor.LimitKey] = 1
	}
	return input
}

// VerifyKeywords scrapes the post at check.URL and matches check.Keywords
// against its text.
func (f *fetcher) VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error) {
	if !f.postURL.MatchString(check.URL) {
		return nil, fmt.Errorf("%w: not a %s post: %s", domain.ErrInvalidPostURL, f.platform, check.URL)
	}
	if len(check.Keywords) == 0 {
		return nil, domain.ErrNoKeywords
	}

	runner, err := f.connect()
	if err != nil {
		return nil, err
	}

	actor := f.opts.Actors.Actor(f.platform)
	log.GlobalDebugCtx(ctx, "Starting scrape", "platform", f.platform.String(), "actor", actor.ID, "url", check.URL)

	run, err := runner.CallActor(ctx, actor.ID, f.actorInput(check.URL, actor))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteJob, err)
	}
	if run == nil || run.DefaultDatasetID == "" {
		return nil, domain.ErrNoDataset
	}

	items, err := runner.ListItems(ctx, run.DefaultDatasetID, f.opts.Actors.DatasetLimit())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteJob, err)
	}

	post, err := f.resolve(items)
	if err != nil {
		log.GlobalWarnCtx(ctx, "Dataset did not resolve to a post",
			"platform", f.platform.String(), "items", len(items), "error", err.Error())
		return nil, err
	}

	return domain.NewVerifyKeywordsResult(f.platform, check.URL, post, check.Keywords), nil
}

// Adapter is a platform adapter.
type Adapter interface {
	Platform() domain.Platform
	VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error)
}

// New creates the adapter for platform.
func New(platform domain.Platform, opts Options) (Adapter, error) {
	switch platform {
	case domain.PlatformX:
		return NewXAdapter(opts), nil
	case domain.PlatformThreads:
		return NewThreadsAdapter(opts), nil
	case domain.PlatformFacebook:
		return NewFacebookAdapter(opts), nil
	case domain.PlatformLinkedIn:
		return NewLinkedInAdapter(opts), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, platform)
}

// All creates one adapter per supported platform.
func All(opts Options) []Adapter {
	adapters := make([]Adapter, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		a, err := New(p, opts)
		if err != nil {
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters
}
