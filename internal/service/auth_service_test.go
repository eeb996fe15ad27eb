package service

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/auth"
	"orderdesk/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureAdmin(ctx context.Context, username, passwordHash string) error {
	args := m.Called(ctx, username, passwordHash)
	return args.Error(0)
}

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", time.Hour)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("open sesame")
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		Username:     "store-7",
		PasswordHash: hash,
		Role:         model.RoleBA,
	}

	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "store-7").Return(user, nil)

	svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
	token, role, err := svc.Login(ctx, "store-7", "open sesame")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleBA, role)

	claims, err := testIssuer().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "store-7", claims.Username)
	assert.Equal(t, model.RoleBA, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("open sesame")
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		Username:     "store-7",
		PasswordHash: hash,
		Role:         model.RoleBA,
	}

	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "store-7").Return(user, nil)

	svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
	token, _, err := svc.Login(ctx, "store-7", "guess")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, model.ErrBadCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
	_, _, err := svc.Login(ctx, "ghost", "anything")

	// Unknown user and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, model.ErrBadCredentials)
}

func TestAuthService_CreateBA(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", ctx, "store-8").Return(nil, nil)
		userRepo.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
		require.NoError(t, svc.CreateBA(ctx, "store-8", "secret"))

		created := userRepo.Calls[1].Arguments.Get(1).(*model.User)
		assert.Equal(t, model.RoleBA, created.Role)
		assert.True(t, auth.VerifyPassword(created.PasswordHash, "secret"))
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByUsername", ctx, "store-8").Return(&model.User{Username: "store-8"}, nil)

		svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
		err := svc.CreateBA(ctx, "store-8", "secret")

		assert.ErrorIs(t, err, model.ErrDuplicateUsername)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_SeedAdmin(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("EnsureAdmin", ctx, "admin", mock.AnythingOfType("string")).Return(nil)

	svc := NewAuthService(userRepo, testIssuer(), zerolog.Nop())
	require.NoError(t, svc.SeedAdmin(ctx, "admin", "hunter2"))

	hash := userRepo.Calls[0].Arguments.String(2)
	assert.True(t, auth.VerifyPassword(hash, "hunter2"))
}
