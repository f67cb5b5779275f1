package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mcoot/onewordstory/internal/api/apierr"
	"github.com/mcoot/onewordstory/internal/api/handler"
	apimw "github.com/mcoot/onewordstory/internal/api/middleware"
	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/middleware"
	"github.com/mcoot/onewordstory/internal/services/admin"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/services/invitation"
	"github.com/mcoot/onewordstory/internal/services/story"
	"github.com/mcoot/onewordstory/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Clock            clock.Clock
	AuthService      *auth.Service
	StoryController  *story.Controller
	InvitationEngine *invitation.Engine
	AdminService     *admin.Service
	AdminPolicy      admin.Policy
	Metrics          *metrics.Metrics

	// Ping checks the database for /health
	Ping func(ctx context.Context) error

	// RateLimiter is optional; when nil /api is not limited
	RateLimiter     storage.Counter
	RateLimitMax    int
	RateLimitWindow time.Duration

	// AllowedOrigin is the browser origin allowed by CORS
	AllowedOrigin string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	storyHandler := handler.NewStoryHandler(cfg.StoryController, cfg.Logger)
	invitationHandler := handler.NewInvitationHandler(cfg.InvitationEngine, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Ping, cfg.Clock, cfg.Logger)

	// Create middleware
	authMiddleware := apimw.Auth(cfg.AuthService)
	verifiedMiddleware := apimw.RequireVerified
	adminMiddleware := apimw.RequireAdmin(cfg.AdminPolicy)

	r.Use(apimw.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(cfg.Metrics.Middleware)

	// Operational endpoints sit outside /api and are not rate limited
	r.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	if cfg.RateLimiter != nil {
		api.Use(apimw.RateLimit(cfg.RateLimiter, cfg.RateLimitMax, cfg.RateLimitWindow, cfg.Logger))
	}

	// Auth routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify/{token}", authHandler.Verify).Methods(http.MethodGet)
	api.Handle("/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	// Story routes (all require auth, creating requires a verified email)
	stories := api.PathPrefix("/stories").Subrouter()
	stories.Use(authMiddleware)
	stories.HandleFunc("", storyHandler.List).Methods(http.MethodGet)
	stories.Handle("", verifiedMiddleware(http.HandlerFunc(storyHandler.Create))).Methods(http.MethodPost)
	stories.HandleFunc("/{id}", storyHandler.Get).Methods(http.MethodGet)
	stories.HandleFunc("/{id}", storyHandler.Delete).Methods(http.MethodDelete)
	stories.HandleFunc("/{id}/words", storyHandler.AddWord).Methods(http.MethodPost)
	stories.HandleFunc("/{id}/end", storyHandler.End).Methods(http.MethodPost)

	// Invitation routes
	invitations := api.PathPrefix("/invitations").Subrouter()
	invitations.Use(authMiddleware)
	invitations.Handle("", verifiedMiddleware(http.HandlerFunc(invitationHandler.Create))).Methods(http.MethodPost)
	invitations.HandleFunc("/stories/{id}/participants", invitationHandler.Participants).Methods(http.MethodGet)
	invitations.HandleFunc("/stories/{id}/pending", invitationHandler.Pending).Methods(http.MethodGet)
	invitations.HandleFunc("/{token}", invitationHandler.Accept).Methods(http.MethodGet)

	// Admin routes
	admins := api.PathPrefix("/admin").Subrouter()
	admins.Use(authMiddleware)
	admins.Use(adminMiddleware)
	admins.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	admins.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods(http.MethodDelete)
	admins.HandleFunc("/users/{id}/resend-verification", adminHandler.ResendVerification).Methods(http.MethodPost)

	if cfg.AllowedOrigin == "" {
		return r
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}),
		handlers.AllowCredentials(),
	)
	return cors(r)
}
