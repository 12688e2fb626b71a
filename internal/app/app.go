// Package app wires configuration, adapters and use cases together.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"postproof/internal/adapters/cache"
	"postproof/internal/adapters/platforms"
	"postproof/internal/adapters/storage"
	"postproof/internal/adapters/store"
	"postproof/internal/adapters/web"
	"postproof/internal/config"
	"postproof/internal/domain"
	"postproof/internal/metrics"
	"postproof/internal/usecases"
	"postproof/pkg/log"
	"postproof/pkg/log/transporters"

	"github.com/gofiber/fiber/v2"
)

// actorsReloadInterval is how often the actor catalogue is checked for changes.
const actorsReloadInterval = 10 * time.Second

// NewLogger builds the JSON logger for level, writing to w.
func NewLogger(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return log.New(lvl, transporters.NewJSON(w)), nil
}

// NewVerifier builds the verification use case with one adapter per
// platform. m may be nil.
func NewVerifier(cfg *config.Config, actors *platforms.ActorConfig, m *metrics.Metrics) *usecases.VerifyKeywordsUseCase {
	opts := platforms.Options{
		Token:   cfg.ApifyToken,
		BaseURL: cfg.ApifyBaseURL,
		Actors:  actors,
	}

	verifiers := make(map[domain.Platform]usecases.PostVerifier, len(domain.Platforms))
	for _, adapter := range platforms.All(opts) {
		var v usecases.PostVerifier = adapter
		if m != nil {
			v = m.InstrumentVerifier(adapter.Platform(), adapter)
		}
		verifiers[adapter.Platform()] = v
	}

	return usecases.NewVerifyKeywordsUseCase(verifiers)
}

// App is the assembled HTTP service.
type App struct {
	cfg         *config.Config
	actors      *platforms.ActorConfig
	store       *store.Store
	cooldown    *cache.Cooldown
	rateLimiter *web.RateLimiter
	metrics     *metrics.Metrics
	handlers    *web.Handlers
}

// New opens the database, loads the actor catalogue and builds the handlers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	actors, err := platforms.LoadActorConfig(cfg.ActorsConfig, actorsReloadInterval)
	if err != nil {
		return nil, fmt.Errorf("load actor config: %w", err)
	}

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		actors.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		actors.Close()
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var evidence usecases.EvidenceStore
	if cfg.EvidenceEnabled() {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.EvidencePublicBaseURL,
		})
		if err != nil {
			actors.Close()
			db.Close()
			return nil, fmt.Errorf("init evidence storage: %w", err)
		}
		evidence = s3
	}

	m := metrics.New()
	m.TrackLogDrops(func() int64 { return log.Default().Dropped() })
	cooldown := cache.NewCooldown(cfg.RescanCooldown, time.Minute)
	verify := NewVerifier(cfg, actors, m)
	submit := usecases.NewSubmitPostUseCase(db, cooldown, verify, evidence, usecases.SubmitPostConfig{
		CreditPerPost:  cfg.CreditPerPost,
		EvidenceBucket: cfg.EvidenceBucket,
		EvidencePrefix: cfg.EvidencePrefix,
	})

	handlers := web.NewHandlers(
		verify,
		submit,
		usecases.NewGetSubmissionUseCase(db),
		usecases.NewListUserSubmissionsUseCase(db),
		db,
		cfg.VerifyTimeout,
	)

	return &App{
		cfg:         cfg,
		actors:      actors,
		store:       db,
		cooldown:    cooldown,
		rateLimiter: web.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),
		metrics:     m,
		handlers:    handlers,
	}, nil
}

// HTTP returns the Fiber app serving the API.
func (a *App) HTTP() *fiber.App {
	return web.NewApp(a.handlers, a.rateLimiter, a.metrics)
}

// Close releases background workers and the database.
func (a *App) Close() error {
	a.rateLimiter.Close()
	a.cooldown.Close()
	a.actors.Close()
	return a.store.Close()
}
