package services_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/retail-auth/internal/lib/password"
	"github.com/magabrotheeeer/retail-auth/internal/models"
	services "github.com/magabrotheeeer/retail-auth/internal/services/reset"
	"github.com/magabrotheeeer/retail-auth/internal/storage/repository"
)

type mockResetRepo struct {
	FindActiveOOSUserByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateResetTokenFunc         func(ctx context.Context, token models.ResetToken) error
	GetResetTokenFunc            func(ctx context.Context, email, token string) (*models.ResetToken, error)
	DeleteResetTokenFunc         func(ctx context.Context, email, token string) error
	DeleteResetTokensByEmailFunc func(ctx context.Context, email string) error
	UpdatePasswordForOOSUserFunc func(ctx context.Context, email, passwordHash string) error
}

func (m *mockResetRepo) FindActiveOOSUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.FindActiveOOSUserByEmailFunc(ctx, email)
}

func (m *mockResetRepo) CreateResetToken(ctx context.Context, token models.ResetToken) error {
	return m.CreateResetTokenFunc(ctx, token)
}

func (m *mockResetRepo) GetResetToken(ctx context.Context, email, token string) (*models.ResetToken, error) {
	return m.GetResetTokenFunc(ctx, email, token)
}

func (m *mockResetRepo) DeleteResetToken(ctx context.Context, email, token string) error {
	return m.DeleteResetTokenFunc(ctx, email, token)
}

func (m *mockResetRepo) DeleteResetTokensByEmail(ctx context.Context, email string) error {
	return m.DeleteResetTokensByEmailFunc(ctx, email)
}

func (m *mockResetRepo) UpdatePasswordForOOSUser(ctx context.Context, email, passwordHash string) error {
	return m.UpdatePasswordForOOSUserFunc(ctx, email, passwordHash)
}

type mockPublisher struct {
	mu        sync.Mutex
	published chan struct{}
	key       string
	message   any
	err       error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(chan struct{}, 1)}
}

func (m *mockPublisher) Publish(routingKey string, message any) error {
	m.mu.Lock()
	m.key = routingKey
	m.message = message
	m.mu.Unlock()
	m.published <- struct{}{}
	return m.err
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

func TestResetService_RequestReset(t *testing.T) {
	ctx := context.Background()
	const linkBase = "https://shop.example.com/reset-password"

	t.Run("success stores token and queues email", func(t *testing.T) {
		var created models.ResetToken
		repo := &mockResetRepo{
			FindActiveOOSUserByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
				require.Equal(t, "juan@example.com", email)
				return &models.User{Email: email, Role: "user", System: "OOS"}, nil
			},
			CreateResetTokenFunc: func(_ context.Context, token models.ResetToken) error {
				created = token
				return nil
			},
		}
		pub := newMockPublisher()
		svc := services.NewResetService(repo, pub, makeLogger(), 15*time.Minute, linkBase)

		require.NoError(t, svc.RequestReset(ctx, "juan@example.com"))

		_, err := uuid.Parse(created.Token)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), created.ExpiresAt, 5*time.Second)

		select {
		case <-pub.published:
		case <-time.After(time.Second):
			t.Fatal("reset email was not published")
		}
		pub.mu.Lock()
		defer pub.mu.Unlock()
		mail, ok := pub.message.(models.ResetEmail)
		require.True(t, ok)
		assert.Equal(t, "juan@example.com", mail.Email)
		assert.True(t, strings.HasPrefix(mail.ResetLink, linkBase+"?token="))
		assert.Contains(t, mail.ResetLink, "&email=juan@example.com")
	})

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		repo := &mockResetRepo{
			FindActiveOOSUserByEmailFunc: func(_ context.Context, _ string) (*models.User, error) {
				return nil, repository.ErrNotFound
			},
			CreateResetTokenFunc: func(_ context.Context, _ models.ResetToken) error {
				t.Fatal("CreateResetToken should not be called")
				return nil
			},
		}
		pub := newMockPublisher()
		svc := services.NewResetService(repo, pub, makeLogger(), 15*time.Minute, linkBase)

		require.NoError(t, svc.RequestReset(ctx, "nobody@example.com"))
	})
}

func TestResetService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	const linkBase = "https://shop.example.com/reset-password"

	t.Run("success rotates password and burns all tokens", func(t *testing.T) {
		var newHash string
		var deletedAll bool
		repo := &mockResetRepo{
			GetResetTokenFunc: func(_ context.Context, email, token string) (*models.ResetToken, error) {
				return &models.ResetToken{
					Email:     email,
					Token:     token,
					ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
				}, nil
			},
			UpdatePasswordForOOSUserFunc: func(_ context.Context, email, passwordHash string) error {
				assert.Equal(t, "juan@example.com", email)
				newHash = passwordHash
				return nil
			},
			DeleteResetTokensByEmailFunc: func(_ context.Context, email string) error {
				assert.Equal(t, "juan@example.com", email)
				deletedAll = true
				return nil
			},
		}
		svc := services.NewResetService(repo, newMockPublisher(), makeLogger(), 15*time.Minute, linkBase)

		require.NoError(t, svc.ResetPassword(ctx, "juan@example.com", "some-token", "new-pass"))
		assert.NoError(t, password.CompareHash(newHash, "new-pass"))
		assert.True(t, deletedAll)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := &mockResetRepo{
			GetResetTokenFunc: func(_ context.Context, _, _ string) (*models.ResetToken, error) {
				return nil, repository.ErrNotFound
			},
		}
		svc := services.NewResetService(repo, newMockPublisher(), makeLogger(), 15*time.Minute, linkBase)

		err := svc.ResetPassword(ctx, "juan@example.com", "bogus", "new-pass")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("expired token is deleted", func(t *testing.T) {
		var deleted bool
		repo := &mockResetRepo{
			GetResetTokenFunc: func(_ context.Context, email, token string) (*models.ResetToken, error) {
				return &models.ResetToken{
					Email:     email,
					Token:     token,
					ExpiresAt: time.Now().UTC().Add(-time.Minute),
				}, nil
			},
			DeleteResetTokenFunc: func(_ context.Context, email, token string) error {
				assert.Equal(t, "juan@example.com", email)
				assert.Equal(t, "stale-token", token)
				deleted = true
				return nil
			},
			UpdatePasswordForOOSUserFunc: func(_ context.Context, _, _ string) error {
				t.Fatal("password should not change for expired token")
				return nil
			},
		}
		svc := services.NewResetService(repo, newMockPublisher(), makeLogger(), 15*time.Minute, linkBase)

		err := svc.ResetPassword(ctx, "juan@example.com", "stale-token", "new-pass")
		assert.ErrorIs(t, err, services.ErrTokenExpired)
		assert.True(t, deleted)
	})
}
