package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

func adminCtx() context.Context {
	return ctxutil.WithSession(context.Background(), &ctxutil.Session{Subject: "admin", ExpiresAt: time.Now().Add(time.Hour)})
}

func testLogger() *logger.Logger { return logger.NewNop() }

func requireAPIError(t *testing.T, err error, status int, code string) *apierr.Error {
	t.Helper()
	require.Error(t, err)
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "expected *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.HTTPStatusCode())
	require.Equal(t, code, ae.Code)
	return ae
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
