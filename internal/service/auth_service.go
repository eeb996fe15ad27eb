package service

import (
	"context"
	"fmt"
	"time"

	"orderdesk/internal/auth"
	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Login verifies credentials and returns a signed access token.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("login rejected")
		return "", "", model.ErrBadCredentials
	}

	token, err := s.issuer.Issue(auth.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, time.Now())
	if err != nil {
		return "", "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("username", username).Str("role", user.Role).Msg("user logged in")
	return token, user.Role, nil
}

// CreateBA creates a new business agent account.
func (s *authService) CreateBA(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to create BA user: %w", err)
	}
	if existing != nil {
		return model.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to create BA user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleBA,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create BA user: %w", err)
	}

	return nil
}

// SeedAdmin creates or refreshes the default admin account at startup.
func (s *authService) SeedAdmin(ctx context.Context, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if err := s.userRepo.EnsureAdmin(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}
