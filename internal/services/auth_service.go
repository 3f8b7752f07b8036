package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"testgram/internal/auth"
	"testgram/internal/models"
	"testgram/internal/storage"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// AuthService covers account creation and token revocation. Token issuance
// belongs to the identity service.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	// Logout revokes the token described by claims until it expires.
	Logout(ctx context.Context, claims *auth.Claims) error
}

// authService 是 AuthService 的实现。
type authService struct {
	userRepo  storage.UserRepository
	blacklist auth.TokenBlacklist
}

// NewAuthService 创建一个新的 AuthService 实例。
func NewAuthService(userRepo storage.UserRepository, blacklist auth.TokenBlacklist) AuthService {
	return &authService{userRepo: userRepo, blacklist: blacklist}
}

// Register 处理用户注册逻辑。
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if err := auth.CheckPasswordPolicy(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	newUser := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		// Lost a race with a concurrent registration.
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, username)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return newUser, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if s.blacklist == nil {
		return fmt.Errorf("%w: token revocation is not configured", ErrUnavailable)
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return fmt.Errorf("%w: token cannot be revoked without jti and exp", ErrValidation)
	}
	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}
