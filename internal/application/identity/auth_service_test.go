package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.published = append(m.published, events...)
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "unit-test-secret-key-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "invoicedesk-test",
	})
}

func newTestService(userRepo *MockUserRepository, bus *MockEventPublisher) *AuthService {
	return NewAuthService(userRepo, newTestJWTService(), bus, nil)
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and publishes event", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		bus := new(MockEventPublisher)
		svc := newTestService(userRepo, bus)

		userRepo.On("ExistsByEmail", ctx, "maria@example.com").Return(false, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Register(ctx, RegisterRequest{
			Email:       "Maria@Example.com",
			Password:    "correct-horse-battery",
			DisplayName: "Maria",
		})

		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", resp.Email)
		assert.Equal(t, "Maria", resp.DisplayName)
		require.Len(t, bus.published, 1)
		assert.Equal(t, identity.EventUserRegistered, bus.published[0].EventType())
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		userRepo.On("ExistsByEmail", ctx, "maria@example.com").Return(true, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "maria@example.com",
			Password: "correct-horse-battery",
		})

		assertDomainErrorCode(t, err, "ALREADY_EXISTS")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects short password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		userRepo.On("ExistsByEmail", ctx, "maria@example.com").Return(false, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Email:    "maria@example.com",
			Password: "short",
		})

		assertDomainErrorCode(t, err, "INVALID_PASSWORD")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	newUser := func(t *testing.T) *identity.User {
		t.Helper()
		user, err := identity.NewUser("maria@example.com", "correct-horse-battery", "Maria")
		require.NoError(t, err)
		user.ClearDomainEvents()
		return user
	}

	t.Run("returns token pair on valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		bus := new(MockEventPublisher)
		svc := newTestService(userRepo, bus)
		user := newUser(t)

		userRepo.On("FindByEmail", ctx, "maria@example.com").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)
		bus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Login(ctx, LoginRequest{Email: " Maria@Example.com ", Password: "correct-horse-battery"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		userRepo.On("FindByEmail", ctx, "maria@example.com").Return(newUser(t), nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "maria@example.com", Password: "wrong"})
		assertDomainErrorCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown email gives the same error as wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
		assertDomainErrorCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("deactivated account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)
		user := newUser(t)
		user.Deactivate()

		userRepo.On("FindByEmail", ctx, "maria@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "maria@example.com", Password: "correct-horse-battery"})
		assertDomainErrorCode(t, err, "ACCOUNT_DEACTIVATED")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a new pair for a valid refresh token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		bus := new(MockEventPublisher)
		svc := newTestService(userRepo, bus)

		user, err := identity.NewUser("maria@example.com", "correct-horse-battery", "Maria")
		require.NoError(t, err)
		user.ClearDomainEvents()

		pair, err := newTestJWTService().GenerateTokenPair(user.ID, user.Email)
		require.NoError(t, err)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := svc.RefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestService(new(MockUserRepository), nil)

		_, err := svc.RefreshToken(ctx, "not-a-token")
		assertDomainErrorCode(t, err, "TOKEN_INVALID")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password when old one matches", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		user, err := identity.NewUser("maria@example.com", "correct-horse-battery", "Maria")
		require.NoError(t, err)
		user.ClearDomainEvents()

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "correct-horse-battery",
			NewPassword: "new-password-123",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("new-password-123"))
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestService(userRepo, nil)

		user, err := identity.NewUser("maria@example.com", "correct-horse-battery", "Maria")
		require.NoError(t, err)

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "new-password-123",
		})

		assertDomainErrorCode(t, err, "INVALID_CREDENTIALS")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
