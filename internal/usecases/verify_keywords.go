package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postproof/internal/domain"
	"postproof/pkg/log"

	"github.com/go-playground/validator/v10"
)

// PostVerifier verifies keywords in a post on one platform.
type PostVerifier interface {
	VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error)
}

// VerifyKeywordsUseCase validates a request, picks the platform adapter and
// runs it.
type VerifyKeywordsUseCase struct {
	verifiers map[domain.Platform]PostVerifier
	validate  *validator.Validate
}

// NewVerifyKeywordsUseCase creates a new VerifyKeywordsUseCase.
func NewVerifyKeywordsUseCase(verifiers map[domain.Platform]PostVerifier) *VerifyKeywordsUseCase {
	return &VerifyKeywordsUseCase{
		verifiers: verifiers,
		validate:  NewValidator(),
	}
}

// NewValidator returns a validator that knows the has_keyword rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("has_keyword", func(fl validator.FieldLevel) bool {
		keywords, ok := fl.Field().Interface().([]string)
		return ok && domain.HasKeyword(keywords)
	})
	return v
}

// Validate checks in and resolves the adapter platform without contacting
// any platform. A supplied platform is trusted; otherwise it is detected
// from the URL.
func (uc *VerifyKeywordsUseCase) Validate(in domain.VerifyKeywordsInput) (domain.Platform, error) {
	in.URL = strings.TrimSpace(in.URL)
	if err := uc.validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}

	platform := in.Platform
	if platform == "" {
		detected, err := domain.DetectPlatform(in.URL)
		if err != nil {
			return "", err
		}
		platform = detected
	}

	if _, ok := uc.verifiers[platform]; !ok {
		return "", fmt.Errorf("%w: no adapter for %s", domain.ErrUnsupportedPlatform, platform)
	}
	return platform, nil
}

// Execute verifies the keywords in the post at in.URL.
func (uc *VerifyKeywordsUseCase) Execute(ctx context.Context, in domain.VerifyKeywordsInput) (*domain.VerifyKeywordsResult, error) {
	platform, err := uc.Validate(in)
	if err != nil {
		return nil, err
	}

	log.GlobalDebugCtx(ctx, "verifying post", "platform", platform.String(), "keywords", len(in.Keywords))

	check := domain.KeywordCheck{URL: strings.TrimSpace(in.URL), Keywords: in.Keywords}
	return uc.verifiers[platform].VerifyKeywords(ctx, check)
}

// describeValidation turns validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "min", "has_keyword":
			if field == "keywords" {
				parts = append(parts, "keywords: at least one keyword is required")
				continue
			}
			parts = append(parts, field+": is required")
		case "url":
			parts = append(parts, field+": must be an absolute URL")
		case "oneof":
			parts = append(parts, field+": must be one of "+fe.Param())
		default:
			parts = append(parts, field+": failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}
