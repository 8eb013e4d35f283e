package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"booksphere/apperrors"
	"booksphere/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func hashedUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:        uuid.New(),
		Username:  username,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestAuthService(users UserRepository) *AuthService {
	return NewAuthService(users, NewTokenService("test-secret", time.Hour))
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	user := hashedUser(t, "user1", "userpass", models.RoleUser)
	users.On("FindByUsername", mock.Anything, "user1").Return(user, nil).Once()

	token, err := svc.Login(context.Background(), "user1", "userpass", models.RoleUser)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	user := hashedUser(t, "user1", "userpass", models.RoleUser)
	users.On("FindByUsername", mock.Anything, "user1").Return(user, nil).Once()

	_, err := svc.Login(context.Background(), "user1", "wrongpass", models.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_RoleMismatch(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	user := hashedUser(t, "user1", "userpass", models.RoleUser)
	users.On("FindByUsername", mock.Anything, "user1").Return(user, nil).Once()

	_, err := svc.Login(context.Background(), "user1", "userpass", models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	users.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.Login(context.Background(), "ghost", "whatever", models.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegister_HashesPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	users.On("FindByUsername", mock.Anything, "newuser").Return(nil, apperrors.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		// Stored password must be a bcrypt hash, never the plaintext.
		return u.Password != "supersecret1" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("supersecret1")) == nil
	})).Return(nil).Once()

	user, err := svc.Register(context.Background(), "newuser", "supersecret1", models.RoleUser)

	require.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	existing := hashedUser(t, "user1", "userpass", models.RoleUser)
	users.On("FindByUsername", mock.Anything, "user1").Return(existing, nil).Once()

	_, err := svc.Register(context.Background(), "user1", "supersecret1", models.RoleUser)

	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_Validation(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "", "supersecret1", models.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(context.Background(), "u", "short", models.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(context.Background(), "u", "supersecret1", "superadmin")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSeedUsers_SkipsExisting(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	existing := hashedUser(t, "user1", "userpass", models.RoleUser)
	users.On("FindByUsername", mock.Anything, "user1").Return(existing, nil).Once()
	users.On("FindByUsername", mock.Anything, "seller1").Return(nil, apperrors.ErrNotFound).Once()
	users.On("FindByUsername", mock.Anything, "admin").Return(nil, apperrors.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	err := svc.SeedUsers(context.Background())

	require.NoError(t, err)
	users.AssertExpectations(t)
}
