package web

import (
	"context"
	"errors"
	"fmt"

	"postproof/internal/domain"
	"postproof/internal/usecases"

	"github.com/gofiber/fiber/v2"
)

// ErrRateLimited is returned when a client exceeds its request budget.
var ErrRateLimited = errors.New("rate limited")

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func malformedBody(err error) error {
	return fmt.Errorf("%w: malformed JSON body: %s", domain.ErrInvalidInput, err.Error())
}

// writeError maps err to a status code and a neutral message.
func (h *Handlers) writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: friendlyError(err)})
}

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRateLimited):
		return fiber.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, usecases.ErrRescanTooSoon):
		return fiber.StatusTooManyRequests, "rescan_too_soon"
	case errors.Is(err, usecases.ErrSubmissionTaken):
		return fiber.StatusConflict, "submission_taken"
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return fiber.StatusNotFound, "not_found"
	}

	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest, string(kind)
	case domain.KindUnsupportedPlatform, domain.KindInvalidPostURL, domain.KindContentShape:
		return fiber.StatusUnprocessableEntity, string(kind)
	case domain.KindConfiguration:
		return fiber.StatusInternalServerError, string(kind)
	case domain.KindRemoteJob:
		return fiber.StatusBadGateway, string(kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, "timeout"
	}
	return fiber.StatusInternalServerError, string(domain.KindUnknown)
}

// friendlyError returns a neutral, non-blaming error message. Validation
// messages name the offending field.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, usecases.ErrRescanTooSoon):
		return "This post was checked recently. Please try again in a few minutes."
	case errors.Is(err, usecases.ErrSubmissionTaken):
		return "This post has already been submitted by another user."
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return "That submission couldn't be found."
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return err.Error()
	case domain.KindUnsupportedPlatform:
		return "That link isn't from a supported platform. Try a post from X, Threads, Facebook or LinkedIn."
	case domain.KindInvalidPostURL:
		return "That doesn't look like a link to a single post. Open the post and copy its link."
	case domain.KindContentShape:
		return "This post couldn't be read. It might be private or no longer available."
	case domain.KindConfiguration:
		return "Post verification is not available right now."
	case domain.KindRemoteJob:
		return "Unable to load this post right now. Please try again in a moment."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Checking this post took too long. Please try again in a moment."
	}
	return "Something went wrong. Please try again in a moment."
}
