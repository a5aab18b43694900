package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

const adminSubject = "admin"

type AuthConfig struct {
	// Password is compared verbatim; PasswordHash (bcrypt) wins when both are set.
	Password     string
	PasswordHash string
	JWTSecret    string
	TTL          time.Duration
	Issuer       string
}

type AuthService interface {
	Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetSessionTTL() time.Duration
}

type authService struct {
	log *logger.Logger
	cfg AuthConfig
	now func() time.Time
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = "portfolio"
	}
	return &authService{log: serviceLog, cfg: cfg, now: time.Now}
}

func (as *authService) GetSessionTTL() time.Duration { return as.cfg.TTL }

func (as *authService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, apierr.BadRequest("Password required")
	}
	if as.cfg.JWTSecret == "" || (as.cfg.Password == "" && as.cfg.PasswordHash == "") {
		return "", time.Time{}, apierr.Internal("Admin login is not configured", errors.New("missing admin password or jwt secret"))
	}
	if !as.checkPassword(password) {
		as.log.Warn("Admin login rejected", "request_id", ctxutil.RequestID(ctx))
		return "", time.Time{}, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, errors.New("Invalid password"))
	}

	now := as.now()
	expiresAt := now.Add(as.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    as.cfg.Issuer,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, apierr.Internal("Failed to create session", err)
	}
	as.log.Info("Admin logged in", "request_id", ctxutil.RequestID(ctx))
	return signed, expiresAt, nil
}

func (as *authService) checkPassword(password string) bool {
	if as.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(as.cfg.PasswordHash), []byte(password)) == nil
	}
	// Compare digests so the comparison time does not depend on length.
	got := sha256.Sum256([]byte(password))
	want := sha256.Sum256([]byte(as.cfg.Password))
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}

// SetContextFromToken attaches the admin session to ctx. An empty token leaves
// ctx anonymous; an invalid one is an error.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	if as.cfg.JWTSecret == "" {
		return ctx, fmt.Errorf("session signing is not configured")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithIssuer(as.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return ctx, fmt.Errorf("Failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("Invalid or expired JWT token")
	}
	sess := &ctxutil.Session{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctxutil.WithSession(ctx, sess), nil
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
