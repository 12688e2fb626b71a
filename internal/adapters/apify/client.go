// Package apify is a minimal client for the Apify actor API: start an actor
// run, wait for it to finish, and read items from its default dataset.
package apify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"postproof/pkg/log"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public Apify API endpoint.
const DefaultBaseURL = "https://api.apify.com"

// waitForFinishSecs is the longest wait the API allows per request.
const waitForFinishSecs = 60

// Run statuses reported by the API.
const (
	StatusReady     = "READY"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusAborted   = "ABORTED"
	StatusTimedOut  = "TIMED-OUT"
)

// ErrRunFailed is returned when an actor run ends in a non-successful state.
var ErrRunFailed = errors.New("actor run did not succeed")

// Run is the subset of an actor run object the verifier relies on.
type Run struct {
	ID               string `json:"id"`
	ActID            string `json:"actId"`
	Status           string `json:"status"`
	StatusMessage    string `json:"statusMessage"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

// Finished reports whether the run reached a terminal status.
func (r *Run) Finished() bool {
	switch r.Status {
	case StatusSucceeded, StatusFailed, StatusAborted, StatusTimedOut:
		return true
	}
	return false
}

// APIError is the error envelope returned by the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("apify: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("apify: HTTP %d: %s: %s", e.StatusCode, e.Type, e.Message)
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

type runEnvelope struct {
	Data Run `json:"data"`
}

// Client talks to the Apify API. It is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithBaseURL points the client at another API host (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *resty.Client) {
		c.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	}
}

// WithTimeout bounds each HTTP request. Actor runs are waited on in slices
// of at most a minute, so this should be comfortably above that.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// New creates a client authenticated with a bearer token.
func New(token string, opts ...Option) *Client {
	client := resty.New()
	client.SetBaseURL(DefaultBaseURL)
	client.SetAuthToken(token)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(2 * time.Minute)

	for _, opt := range opts {
		opt(client)
	}

	return &Client{http: client}
}

// actorPath converts "owner/name" into the "owner~name" form used in URLs.
func actorPath(actorID string) string {
	return strings.Replace(actorID, "/", "~", 1)
}

// CallActor starts an actor run with the given input and blocks until the
// run finishes or ctx is done.
func (c *Client) CallActor(ctx context.Context, actorID string, input any) (*Run, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("actorId", actorPath(actorID)).
		SetQueryParam("waitForFinish", strconv.Itoa(waitForFinishSecs)).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		SetResult(&runEnvelope{}).
		SetError(&errorEnvelope{}).
		Post("/v2/acts/{actorId}/runs")
	if err != nil {
		return nil, fmt.Errorf("start actor %s: %w", actorID, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("start actor %s: %w", actorID, apiError(res))
	}

	run := &res.Result().(*runEnvelope).Data
	if run.ID == "" {
		return nil, fmt.Errorf("start actor %s: response carried no run", actorID)
	}
	log.GlobalDebugCtx(ctx, "actor run started", "actor", actorID, "run_id", run.ID, "status", run.Status)

	for !run.Finished() {
		if run, err = c.waitForRun(ctx, run.ID); err != nil {
			return nil, err
		}
	}

	if run.Status != StatusSucceeded {
		return run, fmt.Errorf("%w: run %s ended %s: %s", ErrRunFailed, run.ID, run.Status, run.StatusMessage)
	}

	return run, nil
}

// waitForRun polls a run, letting the API hold the request open until the
// run finishes or the wait window passes.
func (c *Client) waitForRun(ctx context.Context, runID string) (*Run, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("runId", runID).
		SetQueryParam("waitForFinish", strconv.Itoa(waitForFinishSecs)).
		SetResult(&runEnvelope{}).
		SetError(&errorEnvelope{}).
		Get("/v2/actor-runs/{runId}")
	if err != nil {
		return nil, fmt.Errorf("wait for run %s: %w", runID, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("wait for run %s: %w", runID, apiError(res))
	}

	run := &res.Result().(*runEnvelope).Data
	if run.ID == "" || run.Status == "" {
		return nil, fmt.Errorf("wait for run %s: response carried no run", runID)
	}
	return run, nil
}

// ListItems returns up to limit items from a dataset, decoded as generic
// JSON values. Item shapes are actor-specific and left to the caller.
func (c *Client) ListItems(ctx context.Context, datasetID string, limit int) ([]any, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("datasetId", datasetID).
		SetQueryParam("format", "json").
		SetQueryParam("clean", "true").
		SetError(&errorEnvelope{})
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	res, err := req.Get("/v2/datasets/{datasetId}/items")
	if err != nil {
		return nil, fmt.Errorf("list dataset %s: %w", datasetID, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("list dataset %s: %w", datasetID, apiError(res))
	}

	var items []any
	if err := json.Unmarshal(res.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", datasetID, err)
	}
	return items, nil
}

// apiError extracts the API error envelope, falling back to the raw body.
func apiError(res *resty.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode()}
	if env, ok := res.Error().(*errorEnvelope); ok && env.Error.Message != "" {
		apiErr.Type = env.Error.Type
		apiErr.Message = env.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(res.Body()))
	if apiErr.Message == "" {
		apiErr.Message = res.Status()
	}
	return apiErr
}
