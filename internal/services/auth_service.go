// Package services – AuthService
//
// This file implements the auth gate: a single admin credential configured
// through the environment, sessions persisted in the sessions table, and an
// opaque random token carried in a cookie. Validity is checked on every read;
// nothing sweeps expired rows.
package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/config"
	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/repo"
)

// SessionRepo defines the repository contract required by AuthService.
type SessionRepo interface {
	// CreateSession persists a new session row.
	CreateSession(ctx context.Context, db *gorm.DB, token, userID string, expiresAt time.Time) (*domain.Session, error)

	// GetSessionByToken returns the session for token or repo.ErrNotFound.
	GetSessionByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error)

	// DeleteSessionByToken removes the session if present.
	DeleteSessionByToken(ctx context.Context, db *gorm.DB, token string) error
}

// Identity is the authenticated principal. There is exactly one.
type Identity struct {
	Username string `json:"username"`
}

// TokenBytes is the entropy of a session token (256 bits).
const TokenBytes = 32

// AuthService issues, verifies and revokes sessions.
type AuthService struct {
	DB   *gorm.DB
	Repo SessionRepo

	Username     string
	PasswordHash string // bcrypt
	TTL          time.Duration

	// Now and NewToken are injectable for tests.
	Now      func() time.Time
	NewToken func() (string, error)
}

// NewAuthService constructs an AuthService from configuration.
func NewAuthService(db *gorm.DB, r SessionRepo, cfg config.AuthConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		DB:           db,
		Repo:         r,
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
		TTL:          ttl,
		Now:          time.Now,
		NewToken:     RandomToken,
	}
}

// RandomToken returns TokenBytes of crypto/rand entropy, hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingCredentials
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login checks the credential pair and opens a new session.
//
// The username comparison is constant time and the bcrypt comparison always
// runs, so a wrong username and a wrong password cost the same and yield the
// same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if s.Username == "" || s.PasswordHash == "" {
		return nil, ErrAuthMisconfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// malformed hash in the environment
		logger(ctx).Error().Err(err).Msg("admin password hash rejected by bcrypt")
		return nil, ErrAuthMisconfigured
	}
	if !userOK || err != nil {
		return nil, ErrInvalidCredentials
	}

	newToken := s.NewToken
	if newToken == nil {
		newToken = RandomToken
	}
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	sess, err := s.Repo.CreateSession(ctx, s.DB, token, s.Username, s.now().Add(s.TTL))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Verify resolves token to the session identity. Missing, unknown and
// expired tokens are indistinguishable; store failures also deny access.
func (s *AuthService) Verify(ctx context.Context, token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	sess, err := s.Repo.GetSessionByToken(ctx, s.DB, token)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger(ctx).Warn().Err(err).Msg("session lookup failed")
		}
		return Identity{}, false
	}
	if !sess.ValidAt(s.now()) {
		return Identity{}, false
	}
	return Identity{Username: sess.UserID}, true
}

// Logout deletes the session for token. Unknown or empty tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Repo.DeleteSessionByToken(ctx, s.DB, token)
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// logger returns the request-scoped logger carried by ctx, or the global one.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
