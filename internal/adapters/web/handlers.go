package web

import (
	"context"
	"time"

	"postproof/internal/domain"
	"postproof/internal/usecases"
	"postproof/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	verify          *usecases.VerifyKeywordsUseCase
	submit          *usecases.SubmitPostUseCase
	getSubmission   *usecases.GetSubmissionUseCase
	listSubmissions *usecases.ListUserSubmissionsUseCase
	db              Pinger
	timeout         time.Duration
}

// NewHandlers creates a new Handlers instance. timeout bounds each
// verification, including the remote job.
func NewHandlers(
	verify *usecases.VerifyKeywordsUseCase,
	submit *usecases.SubmitPostUseCase,
	getSubmission *usecases.GetSubmissionUseCase,
	listSubmissions *usecases.ListUserSubmissionsUseCase,
	db Pinger,
	timeout time.Duration,
) *Handlers {
	return &Handlers{
		verify:          verify,
		submit:          submit,
		getSubmission:   getSubmission,
		listSubmissions: listSubmissions,
		db:              db,
		timeout:         timeout,
	}
}

// Verify checks a post for keywords without recording anything.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	var in domain.VerifyKeywordsInput
	if err := c.BodyParser(&in); err != nil {
		return h.writeError(c, malformedBody(err))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.verify.Execute(ctx, in)
	if err != nil {
		log.GlobalErrorCtx(ctx, "verify failed", "url", in.URL, "kind", string(domain.KindOf(err)), "error", err.Error())
		return h.writeError(c, err)
	}

	return c.JSON(result)
}

// Submit records a user's post submission and verifies it.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var in usecases.SubmitPostInput
	if err := c.BodyParser(&in); err != nil {
		return h.writeError(c, malformedBody(err))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	sub, err := h.submit.Execute(ctx, in)
	if err != nil {
		log.GlobalWarnCtx(ctx, "submit failed", "user_id", in.UserID, "url", in.URL, "error", err.Error())
		return h.writeError(c, err)
	}

	return c.JSON(sub)
}

// GetSubmission returns one submission.
func (h *Handlers) GetSubmission(c *fiber.Ctx) error {
	sub, err := h.getSubmission.Execute(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(sub)
}

// ListUserSubmissions returns a user's submissions.
func (h *Handlers) ListUserSubmissions(c *fiber.Ctx) error {
	subs, err := h.listSubmissions.Execute(c.UserContext(), c.Params("userId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"submissions": subs})
}

// Health reports liveness and database reachability.
func (h *Handlers) Health(c *fiber.Ctx) error {
	if h.db != nil {
		if err := h.db.Ping(c.UserContext()); err != nil {
			log.GlobalErrorCtx(c.UserContext(), "health check failed", "error", err.Error())
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
