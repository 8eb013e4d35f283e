package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"booksphere/apperrors"
	"booksphere/models"
)

// UserRepository is the persistence surface AuthService needs.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type AuthService struct {
	users  UserRepository
	tokens *TokenService
}

func NewAuthService(users UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the bcrypt hash and role match, then issues a session token.
// Wrong username, wrong password and wrong role all report the same
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password, role string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}
	if user.Role != role {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.tokens.Generate(user.Username, user.Role)
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	if username == "" || len(password) < 8 {
		return nil, apperrors.Wrap(apperrors.ErrValidation, errors.New("username required and password must be at least 8 characters"))
	}
	if !models.ValidRole(role) {
		return nil, apperrors.Wrap(apperrors.ErrValidation, errors.New("unknown role"))
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SeedUsers inserts the development fixture accounts when they are missing.
// This replaces the old hardcoded credential table: the accounts live in the
// users collection like any other and log in through the same bcrypt path.
func (s *AuthService) SeedUsers(ctx context.Context) error {
	fixtures := []struct {
		username string
		password string
		role     string
	}{
		{"user1", "userpass", models.RoleUser},
		{"seller1", "sellerpass", models.RoleSeller},
		{"admin", "admin123", models.RoleAdmin},
	}

	for _, f := range fixtures {
		if _, err := s.users.FindByUsername(ctx, f.username); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			ID:        uuid.New(),
			Username:  f.username,
			Password:  string(hashed),
			Role:      f.role,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		zap.L().Info("Seeded fixture user", zap.String("username", f.username), zap.String("role", f.role))
	}
	return nil
}
