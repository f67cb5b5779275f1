package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/api"
	"github.com/mcoot/onewordstory/internal/config"
	"github.com/mcoot/onewordstory/internal/database"
	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/dependencies/random"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/services/admin"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/services/invitation"
	"github.com/mcoot/onewordstory/internal/services/mailer"
	"github.com/mcoot/onewordstory/internal/services/story"
	"github.com/mcoot/onewordstory/internal/storage"
	"github.com/mcoot/onewordstory/internal/storage/memory"
	redisstorage "github.com/mcoot/onewordstory/internal/storage/redis"
)

// Rate limit store constants
const (
	StoreTypeMemory = "memory"
	StoreTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	DB      *gorm.DB
	Counter storage.Counter

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Sender  mailer.Sender
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Services
	Notifier         *mailer.Notifier
	AuthService      *auth.Service
	StoryController  *story.Controller
	InvitationEngine *invitation.Engine
	AdminService     *admin.Service
	AdminPolicy      admin.Policy

	// Settings used by Router
	RateLimit   config.RateLimitConfig
	FrontendURL string

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the loaded environment configuration
	Settings config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// dependencies are the externally constructed parts of an App
type dependencies struct {
	db      *gorm.DB
	counter storage.Counter
	sender  mailer.Sender
	clock   clock.Clock
	random  random.Random
	metrics *metrics.Metrics
	authCfg auth.Config
	logger  *slog.Logger

	rateLimit   config.RateLimitConfig
	frontendURL string
}

// New connects to the database and counter store, then wires every service.
// The account named by AdminEmail, if it already exists, is promoted to admin.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	settings := cfg.Settings

	db, err := database.Connect(settings.Database, logger)
	if err != nil {
		return nil, err
	}
	closers := []func() error{func() error { return database.Close(db) }}
	fail := func(err error) (*App, error) {
		for _, c := range closers {
			_ = c()
		}
		return nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		return fail(fmt.Errorf("failed to migrate database: %w", err))
	}

	clk := clock.New()

	var counter storage.Counter
	switch settings.RateLimit.Store {
	case "", StoreTypeMemory:
		counter = memory.New(clk)
	case StoreTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.RateLimit.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		closers = append(closers, redisStore.Close)
		counter = redisStore
	default:
		return fail(errors.New("invalid RATE_LIMIT_STORE: must be 'memory' or 'redis'"))
	}

	sender, err := mailer.NewSMTPSender(settings.SMTP)
	if err != nil {
		return fail(err)
	}

	app := newWithDependencies(dependencies{
		db:      db,
		counter: counter,
		sender:  sender,
		clock:   clk,
		random:  random.New(),
		metrics: metrics.New(),
		authCfg: auth.Config{
			JWTSecret:     settings.Auth.JWTSecret,
			TokenDuration: settings.Auth.JWTExpiresIn,
			AdminEmail:    settings.AdminEmail,
		},
		logger:      logger,
		rateLimit:   settings.RateLimit,
		frontendURL: settings.FrontendURL,
	})
	app.closers = closers

	if settings.AdminEmail != "" {
		found, err := app.AuthService.PromoteAdmin(ctx, settings.AdminEmail)
		if err != nil {
			return fail(err)
		}
		if !found {
			logger.Info("admin account not registered yet", slog.String("email", settings.AdminEmail))
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) *App {
	notifier := mailer.NewNotifier(deps.sender, deps.frontendURL, deps.metrics, deps.logger)

	return &App{
		DB:               deps.db,
		Counter:          deps.counter,
		Clock:            deps.clock,
		Random:           deps.random,
		Sender:           deps.sender,
		Metrics:          deps.metrics,
		Logger:           deps.logger,
		Notifier:         notifier,
		AuthService:      auth.New(deps.db, notifier, deps.clock, deps.random, deps.logger, deps.authCfg),
		StoryController:  story.NewController(deps.db, deps.metrics, deps.clock, deps.logger),
		InvitationEngine: invitation.NewEngine(deps.db, notifier, deps.metrics, deps.clock, deps.random, deps.logger),
		AdminService:     admin.New(deps.db, notifier, deps.clock, deps.random, deps.logger),
		RateLimit:        deps.rateLimit,
		FrontendURL:      deps.frontendURL,
	}
}

// Router builds the HTTP handler serving the whole API
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:           a.Logger,
		Clock:            a.Clock,
		AuthService:      a.AuthService,
		StoryController:  a.StoryController,
		InvitationEngine: a.InvitationEngine,
		AdminService:     a.AdminService,
		AdminPolicy:      a.AdminPolicy,
		Metrics:          a.Metrics,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, a.DB)
		},
		RateLimiter:     a.Counter,
		RateLimitMax:    a.RateLimit.MaxRequests,
		RateLimitWindow: a.RateLimit.Window,
		AllowedOrigin:   a.FrontendURL,
	})
}

// SweepCounters periodically drops lapsed rate limit windows when they are
// held in memory. It returns when ctx is done.
func (a *App) SweepCounters(ctx context.Context, every time.Duration) {
	mem, ok := a.Counter.(*memory.Storage)
	if !ok || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				a.Logger.Debug("swept rate limit windows", slog.Int("removed", n))
			}
		}
	}
}

// Close releases the database and counter store connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
