package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/password"
	"chargehub/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register a duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// UserRepo defines storage contract used by the auth service.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRevoker marks issued tokens invalid until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthService contains registration, login and logout logic.
type AuthService struct {
	repo      UserRepo
	hasher    password.Hasher
	tokenizer *TokenService
	revoked   TokenRevoker
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepo, hasher password.Hasher, tokenizer *TokenService, revoked TokenRevoker, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		revoked:   revoked,
		logger:    logger,
	}
}

// Register creates a new account and issues its first token.
func (s *AuthService) Register(ctx context.Context, name, email, plain string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	if plain == "" {
		return nil, "", fmt.Errorf("%w: password is required", ErrValidation)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the lookup above; the
		// unique index is the authority.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	token, err := s.tokenizer.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return user, token, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, plain string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the presented token until it would have expired anyway.
// A token without an expiry claim is refused: it cannot be revoked for a
// bounded window, so the session stays considered active.
func (s *AuthService) Logout(ctx context.Context, token string, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return errors.New("auth: token has no expiry")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, token, ttl); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// IsTokenRevoked reports whether a token was invalidated by a logout.
func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return s.revoked.IsRevoked(ctx, token)
}
