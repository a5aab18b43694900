package ctxutil

import (
	"context"
	"time"
)

type sessionKey struct{}

// Session is what the admin gate learned about the caller. A nil Session means
// the request is anonymous.
type Session struct {
	Subject   string
	ExpiresAt time.Time
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(Default(ctx), sessionKey{}, s)
}

func GetSession(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetSession(ctx) != nil
}
