package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/config"
	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/repo"
)

// ----- Fake session repo -----

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.Session
	getErr    error
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]domain.Session{}}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, _ *gorm.DB, token, userID string, expiresAt time.Time) (*domain.Session, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := domain.Session{ID: token[:8], Token: token, UserID: userID, ExpiresAt: expiresAt}
	r.sessions[token] = s
	return &s, nil
}

func (r *fakeSessionRepo) GetSessionByToken(_ context.Context, _ *gorm.DB, token string) (*domain.Session, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) DeleteSessionByToken(_ context.Context, _ *gorm.DB, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuth(t *testing.T, r SessionRepo) (*AuthService, *time.Time) {
	t.Helper()
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewAuthService(nil, r, config.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: mustHash(t, "s3cret"),
		SessionTTL:        7 * 24 * time.Hour,
	})
	s.Now = func() time.Time { return now }
	return s, &now
}

// ----- Tests -----

func TestLogin_Success_IssuesHighEntropyToken(t *testing.T) {
	s, now := newAuth(t, newFakeSessionRepo())

	sess, err := s.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.Len(t, sess.Token, 2*TokenBytes)
	assert.Equal(t, "admin", sess.UserID)
	assert.Equal(t, now.Add(7*24*time.Hour), sess.ExpiresAt)

	other, err := s.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, sess.Token, other.Token)
}

func TestLogin_MissingFields(t *testing.T) {
	s, _ := newAuth(t, newFakeSessionRepo())
	for _, c := range [][2]string{{"", "x"}, {"admin", ""}, {"", ""}} {
		_, err := s.Login(context.Background(), c[0], c[1])
		assert.ErrorIs(t, err, ErrMissingCredentials, c)
	}
}

func TestLogin_WrongCredentialsLookIdentical(t *testing.T) {
	s, _ := newAuth(t, newFakeSessionRepo())
	cases := [][2]string{
		{"admin", "wrong"},
		{"root", "s3cret"},
		{"root", "wrong"},
		{"admin ", "s3cret"},
	}
	for _, c := range cases {
		sess, err := s.Login(context.Background(), c[0], c[1])
		assert.Nil(t, sess)
		assert.Equal(t, ErrInvalidCredentials, err, c)
	}
}

func TestLogin_Misconfigured(t *testing.T) {
	s := NewAuthService(nil, newFakeSessionRepo(), config.AuthConfig{AdminUsername: "admin"})
	_, err := s.Login(context.Background(), "admin", "x")
	assert.ErrorIs(t, err, ErrAuthMisconfigured)

	s = NewAuthService(nil, newFakeSessionRepo(), config.AuthConfig{AdminUsername: "admin", AdminPasswordHash: "plaintext"})
	_, err = s.Login(context.Background(), "admin", "plaintext")
	assert.ErrorIs(t, err, ErrAuthMisconfigured, "a non-bcrypt hash is a server error, not a credential mismatch")
}

func TestLogin_StoreFailureIsWrapped(t *testing.T) {
	r := newFakeSessionRepo()
	r.createErr = errors.New("db down")
	s, _ := newAuth(t, r)
	_, err := s.Login(context.Background(), "admin", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, r.createErr)
}

func TestLogin_TokenFailure(t *testing.T) {
	s, _ := newAuth(t, newFakeSessionRepo())
	s.NewToken = func() (string, error) { return "", errors.New("entropy") }
	_, err := s.Login(context.Background(), "admin", "s3cret")
	assert.Error(t, err)
}

func TestVerify_ValidUntilExpiry(t *testing.T) {
	s, now := newAuth(t, newFakeSessionRepo())
	sess, err := s.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	id, ok := s.Verify(context.Background(), sess.Token)
	assert.True(t, ok)
	assert.Equal(t, Identity{Username: "admin"}, id)

	*now = now.Add(7*24*time.Hour - time.Second)
	_, ok = s.Verify(context.Background(), sess.Token)
	assert.True(t, ok, "still valid one second before expiry")

	*now = now.Add(time.Second)
	_, ok = s.Verify(context.Background(), sess.Token)
	assert.False(t, ok, "invalid at expiry")
}

func TestVerify_FailsClosed(t *testing.T) {
	r := newFakeSessionRepo()
	s, _ := newAuth(t, r)

	_, ok := s.Verify(context.Background(), "")
	assert.False(t, ok)
	_, ok = s.Verify(context.Background(), "unknown")
	assert.False(t, ok)

	sess, err := s.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	r.getErr = errors.New("connection refused")
	_, ok = s.Verify(context.Background(), sess.Token)
	assert.False(t, ok)
}

func TestLogout_RevokesAndIsIdempotent(t *testing.T) {
	s, _ := newAuth(t, newFakeSessionRepo())
	sess, err := s.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), sess.Token))
	_, ok := s.Verify(context.Background(), sess.Token)
	assert.False(t, ok)

	assert.NoError(t, s.Logout(context.Background(), sess.Token))
	assert.NoError(t, s.Logout(context.Background(), ""))
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken()
	require.NoError(t, err)
	b, _ := RandomToken()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
