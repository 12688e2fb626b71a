package domain

import "time"

// SubmissionStatus is the lifecycle state of a post submission.
type SubmissionStatus string

const (
	// StatusVerifying means no clean verification result exists yet.
	StatusVerifying SubmissionStatus = "VERIFYING"
	// StatusVerified means the post contained every required keyword.
	StatusVerified SubmissionStatus = "VERIFIED"
	// StatusInvalid means the post was read but keywords were missing.
	StatusInvalid SubmissionStatus = "INVALID"
	// StatusValidationFailed means the submitted URL or keywords were rejected.
	StatusValidationFailed SubmissionStatus = "VALIDATION_FAILED"
)

// Submission is a user's claim that a post promotes the required keywords.
// Submissions are unique per normalized URL.
type Submission struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Platform        Platform         `json:"platform,omitempty"`
	URL             string           `json:"url"`
	Keywords        []string         `json:"keywords"`
	MatchedKeywords []string         `json:"matchedKeywords"`
	MissingKeywords []string         `json:"missingKeywords"`
	Likes           int              `json:"likes"`
	Comments        int              `json:"comments"`
	Shares          int              `json:"shares"`
	Status          SubmissionStatus `json:"status"`
	CreditAwarded   int              `json:"creditAwarded"`
	CreditPenalized int              `json:"creditPenalized"`
	RescanCount     int              `json:"rescanCount"`
	EvidenceURL     string           `json:"evidenceUrl,omitempty"`
	LastError       string           `json:"lastError,omitempty"`
	VerifiedAt      *time.Time       `json:"verifiedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// NetCredit is the credit currently held for this submission.
func (s *Submission) NetCredit() int {
	return s.CreditAwarded - s.CreditPenalized
}

// ApplyResult records a successful verification and settles credit.
// A verified post earns credit once; a post that later loses its
// keywords gives the held credit back.
func (s *Submission) ApplyResult(result *VerifyKeywordsResult, credit int, now time.Time) {
	s.Platform = result.Platform
	s.MatchedKeywords = result.MatchedKeywords
	s.MissingKeywords = result.MissingKeywords
	s.Likes = result.Likes
	s.Comments = result.Comments
	s.Shares = result.Shares
	s.LastError = ""
	s.VerifiedAt = &now
	s.UpdatedAt = now

	if result.ContainsAll {
		s.Status = StatusVerified
		if s.NetCredit() == 0 {
			s.CreditAwarded += credit
		}
		return
	}

	s.Status = StatusInvalid
	if held := s.NetCredit(); held > 0 {
		s.CreditPenalized += held
	}
}

// ApplyFailure records a verification that produced no result.
// Input errors are final; anything else leaves the submission
// waiting for a rescan.
func (s *Submission) ApplyFailure(err error, now time.Time) {
	s.LastError = err.Error()
	s.UpdatedAt = now
	if IsInputError(err) {
		s.Status = StatusValidationFailed
		return
	}
	if s.Status == "" || s.Status == StatusValidationFailed {
		s.Status = StatusVerifying
	}
}
