package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"chargehub/internal/models"
	"chargehub/internal/password"
	"chargehub/internal/repository"
	"chargehub/internal/service"
)

type mockUserRepo struct {
	create     func(ctx context.Context, user *models.User) error
	getByEmail func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmail(ctx, email)
}

var _ service.UserRepo = (*mockUserRepo)(nil)

type mockRevoker struct {
	revoked map[string]time.Duration
}

func newMockRevoker() *mockRevoker {
	return &mockRevoker{revoked: map[string]time.Duration{}}
}

func (m *mockRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.revoked[token] = ttl
	return nil
}
func (m *mockRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := m.revoked[token]
	return ok, nil
}

var _ service.TokenRevoker = (*mockRevoker)(nil)

func emptyUserRepo() *mockUserRepo {
	return &mockUserRepo{
		create: func(_ context.Context, u *models.User) error {
			u.ID = uuid.New()
			u.CreatedAt = time.Now().UTC()
			return nil
		},
		getByEmail: func(_ context.Context, _ string) (*models.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
}

func newAuthService(repo *mockUserRepo, revoker service.TokenRevoker) *service.AuthService {
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	tokenizer := service.NewTokenService("test-secret", time.Hour)
	return service.NewAuthService(repo, hasher, tokenizer, revoker, zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	svc := newAuthService(emptyUserRepo(), newMockRevoker())

	user, token, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := emptyUserRepo()
	repo.getByEmail = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: uuid.New()}, nil
	}
	svc := newAuthService(repo, newMockRevoker())

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2")

	assert.ErrorIs(t, err, service.ErrEmailInUse)
}

func TestAuthService_Register_DuplicateEmailOnInsert(t *testing.T) {
	// The lookup sees no user but the insert itself hits the unique index,
	// as happens when two registrations race.
	repo := emptyUserRepo()
	repo.create = func(_ context.Context, _ *models.User) error {
		return repository.ErrDuplicateEmail
	}
	svc := newAuthService(repo, newMockRevoker())

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2")

	assert.ErrorIs(t, err, service.ErrEmailInUse)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newAuthService(emptyUserRepo(), newMockRevoker())

	_, _, err := svc.Register(context.Background(), "", "alice@example.com", "hunter2")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, _, err = svc.Register(context.Background(), "Alice", "", "hunter2")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, _, err = svc.Register(context.Background(), "Alice", "alice@example.com", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	var stored *models.User
	repo := &mockUserRepo{
		create: func(_ context.Context, u *models.User) error {
			u.ID = uuid.New()
			copied := *u
			stored = &copied
			return nil
		},
		getByEmail: func(_ context.Context, email string) (*models.User, error) {
			if stored == nil || stored.Email != email {
				return nil, repository.ErrUserNotFound
			}
			copied := *stored
			return &copied, nil
		},
	}
	svc := newAuthService(repo, newMockRevoker())

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(emptyUserRepo(), newMockRevoker())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2")

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	revoker := newMockRevoker()
	svc := newAuthService(emptyUserRepo(), revoker)

	_, token, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter2")
	require.NoError(t, err)

	tokenizer := service.NewTokenService("test-secret", time.Hour)
	claims, err := tokenizer.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token, claims))

	revoked, err := svc.IsTokenRevoked(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := revoker.revoked[token]
	assert.Greater(t, ttl, 59*time.Minute, "revocation lasts until natural expiry")
}

func TestAuthService_Logout_TokenWithoutExpiry(t *testing.T) {
	revoker := newMockRevoker()
	svc := newAuthService(emptyUserRepo(), revoker)

	// Claims carrying no exp cannot be revoked for a bounded window.
	err := svc.Logout(context.Background(), "some-token", &service.Claims{UserID: uuid.NewString()})

	require.Error(t, err)
	assert.Empty(t, revoker.revoked)
}
