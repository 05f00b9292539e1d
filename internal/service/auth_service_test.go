package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			SessionTTLMinutes: 60,
			BcryptCost:        bcrypt.MinCost,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "hunter2hunter2",
		},
	}
}

func newTestAuthService() (*AuthService, *fakeUserStore, *auth.MemorySessionStore) {
	users := newFakeUserStore()
	sessions := auth.NewMemorySessionStore()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:     users,
		SessionStore: sessions,
	})
	return svc, users, sessions
}

func TestSignupStartsWithZeroCounters(t *testing.T) {
	svc, _, sessions := newTestAuthService()

	user, session, err := svc.Signup(context.Background(), "Ada Lovelace", "Ada@Example.COM", "secret123")
	require.NoError(t, err)

	assert.Equal(t, 0, user.Points)
	assert.Equal(t, 0, user.ItemsReported)
	assert.Equal(t, 0, user.ItemsAccepted)
	assert.Equal(t, "ada@example.com", user.Email)

	claims, err := sessions.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Ada Lovelace", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Ada Impostor", "ADA@EXAMPLE.COM", "secret456")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Equal(t, 1, users.count())
}

func TestSignupValidation(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "secret123"},
		{"digits in name", "Ada99", "a@b.com", "secret123"},
		{"bad email", "Ada Lovelace", "not-an-email", "secret123"},
		{"short password", "Ada Lovelace", "a@b.com", "short"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tc.userName, tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
	assert.Equal(t, 0, users.count())
}

func TestLoginGenericFailureMessage(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Ada Lovelace", "ada@example.com", "secret123")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "secret123")
	_, _, wrongPassErr := svc.Login(ctx, "ada@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.Equal(t, apperrors.ToDomainError(unknownErr).Message, apperrors.ToDomainError(wrongPassErr).Message)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(unknownErr).Code)
}

func TestLoginSucceedsWithMixedCaseEmail(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Ada Lovelace", "ada@example.com", "secret123")
	require.NoError(t, err)

	user, session, err := svc.Login(ctx, "Ada@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	claims, err := sessions.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAdminLogin(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	session, err := svc.AdminLogin(ctx, "admin", "hunter2hunter2")
	require.NoError(t, err)

	claims, err := sessions.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Empty(t, claims.UserID)

	_, err = svc.AdminLogin(ctx, "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = svc.AdminLogin(ctx, "root", "hunter2hunter2")
	require.Error(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, session, err := svc.Signup(ctx, "Ada Lovelace", "ada@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.SessionID))
	require.NoError(t, svc.Logout(ctx, session.SessionID))

	_, err = sessions.Get(ctx, session.SessionID)
	assert.Equal(t, auth.ErrSessionNotFound, err)
}
