package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	svc := newTestService("test-secret")

	session, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "User@Example.com",
		Password: "pass1234",
		Name:     "  Ada Lovelace ",
	})
	require.NoError(t, err)
	require.True(t, session.Success)
	require.Equal(t, "user@example.com", session.User.Email)
	require.Equal(t, "Ada Lovelace", session.User.Name)
	require.NotZero(t, session.User.ID)
	require.NotEmpty(t, session.AccessToken)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, session.User.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, claims.UserID)
	require.Equal(t, session.User.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.AccessToken, refreshed.AccessToken)
	require.Equal(t, "Ada Lovelace", refreshed.User.Name)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))

	view, err := svc.Profile(context.Background(), claims.UserID)
	require.NoError(t, err)
	require.Equal(t, session.User, view)
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := newTestService("test-secret")

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "user@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "USER@example.com", Password: "pass12345"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeEmailExists))
	require.Contains(t, err.Error(), "already registered")
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService("test-secret")
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@example.com"})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService("test-secret")
	tests := []RegisterRequest{
		{Email: "", Password: "pass1234"},
		{Email: "not-an-email", Password: "pass1234"},
		{Email: "a@example.com", Password: "short"},
	}
	for _, req := range tests {
		_, err := svc.Register(context.Background(), req)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput), "request %+v", req)
	}
}

func TestService_DisabledIssuesEmptyTokens(t *testing.T) {
	svc := newTestService("")
	require.False(t, svc.Enabled())

	session, err := svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.True(t, session.Success)
	require.Empty(t, session.AccessToken)
	require.Empty(t, session.RefreshToken)

	_, err = svc.ValidateToken(context.Background(), "anything")
	require.True(t, apperrors.IsCode(err, CodeAuthDisabled))
}

func TestService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := newTestService("test-secret")

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err = expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))
}

func newTestService(secret string) Service {
	return NewService(Config{
		Secret:          secret,
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, newMemoryRepo(), newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Insert(_ context.Context, nu NewUser) (User, error) {
	m.seq++
	now := time.Now()
	user := User{
		ID:           m.seq,
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (User, error) {
	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
