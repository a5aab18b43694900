package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
)

func TestAuthLoginAndVerify(t *testing.T) {
	svc := NewAuthService(testLogger(), AuthConfig{Password: "hunter2", JWTSecret: "secret", TTL: time.Hour})

	tok, exp, err := svc.Login(context.Background(), "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	sess := ctxutil.GetSession(ctx)
	require.NotNil(t, sess)
	require.Equal(t, "admin", sess.Subject)

	_, _, err = svc.Login(context.Background(), "wrong")
	requireAPIError(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)

	_, _, err = svc.Login(context.Background(), "")
	requireAPIError(t, err, http.StatusBadRequest, apierr.CodeBadRequest)
}

func TestAuthBcryptHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	svc := NewAuthService(testLogger(), AuthConfig{PasswordHash: hash, JWTSecret: "k"})

	_, _, err = svc.Login(context.Background(), "s3cret")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "s3cret!")
	require.Error(t, err)
}

func TestAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewAuthService(testLogger(), AuthConfig{Password: "pw", JWTSecret: "one", TTL: time.Minute}).(*authService)
	other := NewAuthService(testLogger(), AuthConfig{Password: "pw", JWTSecret: "two"})

	foreign, _, err := other.Login(context.Background(), "pw")
	require.NoError(t, err)
	_, err = svc.SetContextFromToken(context.Background(), foreign)
	require.Error(t, err)

	tok, _, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.SetContextFromToken(context.Background(), tok)
	require.Error(t, err)

	ctx, err := svc.SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ctxutil.IsAuthenticated(ctx))
}

func TestAuthUnconfigured(t *testing.T) {
	svc := NewAuthService(testLogger(), AuthConfig{})
	_, _, err := svc.Login(context.Background(), "anything")
	requireAPIError(t, err, http.StatusInternalServerError, apierr.CodeInternal)
}
