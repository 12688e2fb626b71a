package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"postproof/internal/domain"
	"postproof/pkg/log"

	"github.com/google/uuid"
)

var (
	// ErrSubmissionTaken is returned when another user already claimed the post.
	ErrSubmissionTaken = errors.New("post already submitted by another user")

	// ErrRescanTooSoon is returned when a post is resubmitted inside the
	// cooldown window.
	ErrRescanTooSoon = errors.New("post was checked recently, try again later")
)

// SubmissionRepository persists submissions. Lookups that find nothing
// return domain.ErrSubmissionNotFound.
type SubmissionRepository interface {
	Save(ctx context.Context, sub *domain.Submission) error
	Get(ctx context.Context, id string) (*domain.Submission, error)
	GetByURL(ctx context.Context, url string) (*domain.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Submission, error)
}

// RescanCooldown tracks recently checked posts.
type RescanCooldown interface {
	Active(key string) bool
	Mark(key string)
}

// EvidenceStore stores verification evidence and returns its public URL.
type EvidenceStore interface {
	Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
}

// KeywordVerifier checks a request up front and runs one verification.
type KeywordVerifier interface {
	Validate(in domain.VerifyKeywordsInput) (domain.Platform, error)
	Execute(ctx context.Context, in domain.VerifyKeywordsInput) (*domain.VerifyKeywordsResult, error)
}

// SubmitPostInput is a user's claim that a post carries the keywords.
type SubmitPostInput struct {
	UserID   string          `json:"userId"`
	Platform domain.Platform `json:"platform,omitempty"`
	URL      string          `json:"url"`
	Keywords []string        `json:"keywords"`
}

// SubmitPostConfig holds the settings of SubmitPostUseCase.
type SubmitPostConfig struct {
	CreditPerPost  int
	EvidenceBucket string
	EvidencePrefix string
}

// SubmitPostUseCase records a submission, verifies the post and settles
// credit.
type SubmitPostUseCase struct {
	repo     SubmissionRepository
	cooldown RescanCooldown
	verifier KeywordVerifier
	evidence EvidenceStore
	cfg      SubmitPostConfig
	now      func() time.Time

	// mu serializes claiming a URL, not the verification itself.
	mu sync.Mutex
}

// NewSubmitPostUseCase creates a new SubmitPostUseCase. evidence may be nil.
func NewSubmitPostUseCase(repo SubmissionRepository, cooldown RescanCooldown, verifier KeywordVerifier, evidence EvidenceStore, cfg SubmitPostConfig) *SubmitPostUseCase {
	return &SubmitPostUseCase{
		repo:     repo,
		cooldown: cooldown,
		verifier: verifier,
		evidence: evidence,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Execute verifies the submitted post and stores the outcome. Malformed
// requests are rejected before the URL is claimed. Failures of the
// verification itself are recorded on the returned submission, not returned
// as errors.
func (uc *SubmitPostUseCase) Execute(ctx context.Context, in SubmitPostInput) (*domain.Submission, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.URL = strings.TrimSpace(in.URL)
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: userid: is required", domain.ErrInvalidInput)
	}
	if in.URL == "" {
		return nil, fmt.Errorf("%w: url: is required", domain.ErrInvalidInput)
	}

	check := domain.VerifyKeywordsInput{Platform: in.Platform, URL: in.URL, Keywords: in.Keywords}
	platform, err := uc.verifier.Validate(check)
	if err != nil {
		return nil, err
	}

	sub, err := uc.claim(ctx, in, platform)
	if err != nil {
		return nil, err
	}
	ctx = log.WithSubmission(ctx, sub.ID, sub.RescanCount)

	check.Platform = platform
	result, verr := uc.verifier.Execute(ctx, check)

	now := uc.now()
	if verr != nil {
		sub.ApplyFailure(verr, now)
		log.GlobalWarnCtx(ctx, "submission verification failed",
			"kind", string(domain.KindOf(verr)), "error", verr.Error())
	} else {
		sub.ApplyResult(result, uc.cfg.CreditPerPost, now)
		uc.archive(ctx, sub, result)
	}

	if err := uc.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	log.GlobalInfoCtx(ctx, "submission checked",
		"status", string(sub.Status),
		"net_credit", sub.NetCredit(),
	)

	return sub, nil
}

// claim loads or creates the submission for the URL and starts the
// cooldown window.
func (uc *SubmitPostUseCase) claim(ctx context.Context, in SubmitPostInput, platform domain.Platform) (*domain.Submission, error) {
	key := domain.NormalizeURL(in.URL)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	sub, err := uc.repo.GetByURL(ctx, key)
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		now := uc.now()
		sub = &domain.Submission{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			URL:       key,
			Platform:  platform,
			Status:    domain.StatusVerifying,
			CreatedAt: now,
			UpdatedAt: now,
		}
	case err != nil:
		return nil, fmt.Errorf("load submission: %w", err)
	case sub.UserID != in.UserID:
		return nil, ErrSubmissionTaken
	case uc.cooldown.Active(key):
		return nil, ErrRescanTooSoon
	default:
		sub.RescanCount++
	}

	sub.Keywords = in.Keywords
	if err := uc.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	uc.cooldown.Mark(key)

	return sub, nil
}

// archive stores the raw result next to the submission. Failures are
// logged only.
func (uc *SubmitPostUseCase) archive(ctx context.Context, sub *domain.Submission, result *domain.VerifyKeywordsResult) {
	if uc.evidence == nil || uc.cfg.EvidenceBucket == "" {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.GlobalErrorCtx(ctx, "encode evidence failed", "error", err.Error())
		return
	}

	key := EvidencePath(uc.cfg.EvidencePrefix, sub.ID, sub.RescanCount)
	url, err := uc.evidence.Put(ctx, uc.cfg.EvidenceBucket, key, data, "application/json")
	if err != nil {
		log.GlobalWarnCtx(ctx, "store evidence failed", "error", err.Error())
		return
	}
	sub.EvidenceURL = url
}

// EvidencePath is the object key of one verification of a submission.
func EvidencePath(prefix, submissionID string, rescan int) string {
	return path.Join(prefix, "submissions", submissionID, fmt.Sprintf("%d.json", rescan))
}
