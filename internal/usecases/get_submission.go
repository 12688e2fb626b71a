package usecases

import (
	"context"
	"fmt"
	"strings"

	"postproof/internal/domain"
	"postproof/pkg/log"
)

// GetSubmissionUseCase handles retrieving a single submission.
type GetSubmissionUseCase struct {
	repo SubmissionRepository
}

// NewGetSubmissionUseCase creates a new GetSubmissionUseCase.
func NewGetSubmissionUseCase(repo SubmissionRepository) *GetSubmissionUseCase {
	return &GetSubmissionUseCase{repo: repo}
}

// Execute returns the submission with the given id.
func (uc *GetSubmissionUseCase) Execute(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := uc.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	log.GlobalDebugCtx(ctx, "submission loaded", "submission_id", sub.ID)
	return sub, nil
}

// ListUserSubmissionsUseCase handles listing a user's submissions.
type ListUserSubmissionsUseCase struct {
	repo SubmissionRepository
}

// NewListUserSubmissionsUseCase creates a new ListUserSubmissionsUseCase.
func NewListUserSubmissionsUseCase(repo SubmissionRepository) *ListUserSubmissionsUseCase {
	return &ListUserSubmissionsUseCase{repo: repo}
}

// Execute returns the user's submissions, newest first.
func (uc *ListUserSubmissionsUseCase) Execute(ctx context.Context, userID string) ([]*domain.Submission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userid: is required", domain.ErrInvalidInput)
	}
	return uc.repo.ListByUser(ctx, userID)
}
