package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/dependencies/clock"
	"github.com/mcoot/onewordstory/internal/dependencies/random"
	"github.com/mcoot/onewordstory/internal/model"
	"github.com/mcoot/onewordstory/internal/validation"
)

// Errors
var (
	ErrEmailExists              = errors.New("email already registered")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrMissingToken             = errors.New("no token provided")
	ErrInvalidToken             = errors.New("invalid token")
	ErrTokenExpired             = errors.New("token expired")
	ErrUnknownUser              = errors.New("token user no longer exists")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrEmailNotVerified         = errors.New("email verification required")
)

// VerificationTokenBytes is the entropy of email verification tokens
const VerificationTokenBytes = 32

// VerificationMailer sends the email verification link
type VerificationMailer interface {
	SendVerification(ctx context.Context, email, username, token string) error
}

// Config holds configuration for the auth service
type Config struct {
	JWTSecret     string
	TokenDuration time.Duration
	// AdminEmail registers with the admin role
	AdminEmail string
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		JWTSecret:     "change-me-in-production",
		TokenDuration: 7 * 24 * time.Hour,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Session is an issued token and the user it belongs to
type Session struct {
	Token string
	User  *model.User
}

// Service owns user identity: registration, login, verification and token checks
type Service struct {
	db         *gorm.DB
	tokens     *TokenManager
	mailer     VerificationMailer
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	adminEmail string
	bcryptCost int
}

// New creates a new auth Service
func New(db *gorm.DB, mailer VerificationMailer, clk clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		db:         db,
		tokens:     NewTokenManager(cfg.JWTSecret, cfg.TokenDuration, clk),
		mailer:     mailer,
		clock:      clk,
		random:     rnd,
		logger:     logger,
		adminEmail: validation.NormalizeEmail(cfg.AdminEmail),
		bcryptCost: cfg.BcryptCost,
	}
}

// Tokens returns the token manager
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates an unverified account, emails the verification link and
// signs the user in. A failed email does not fail registration.
func (s *Service) Register(ctx context.Context, email, username, password string) (*Session, error) {
	email = validation.NormalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	verificationToken := s.random.Token(VerificationTokenBytes)
	now := s.clock.Now()

	role := model.RoleUser
	if s.adminEmail != "" && email == s.adminEmail {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:                uuid.NewString(),
		Email:             email,
		Username:          username,
		PasswordHash:      string(hash),
		VerificationToken: &verificationToken,
		Role:              role,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, verificationToken); err != nil {
		s.logger.Warn("verification email not sent", "user_id", user.ID, "error", err)
	}

	return s.newSession(user)
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", validation.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(&user)
}

// VerifyEmail marks the account holding token as verified and clears the token
func (s *Service) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidVerificationToken
	}

	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("verification_token = ?", token).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidVerificationToken
			}
			return err
		}

		user.EmailVerified = true
		user.VerificationToken = nil
		user.UpdatedAt = s.clock.Now()
		return tx.Model(&user).Select("email_verified", "verification_token", "updated_at").Updates(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", "user_id", user.ID)
	return &user, nil
}

// Authenticate validates a session token and loads its user
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

// GetUser loads a user by ID
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// PromoteAdmin gives the admin role to the account with email, if it exists.
// Reports whether an account was found.
func (s *Service) PromoteAdmin(ctx context.Context, email string) (bool, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}

	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Updates(map[string]any{"role": model.RoleAdmin, "updated_at": s.clock.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("failed to promote admin: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.logger.Info("admin role granted", "email", email)
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) newSession(user *model.User) (*Session, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
