package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/domain"
)

// CreateSession persists a new session for userID valid until expiresAt.
func CreateSession(ctx context.Context, db *gorm.DB, token, userID string, expiresAt time.Time) (*domain.Session, error) {
	s := &domain.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSessionByToken returns the session with the given token, expired or
// not, or ErrNotFound.
func GetSessionByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).Where("token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSessionByToken removes the session if present. Deleting an unknown
// token is not an error.
func DeleteSessionByToken(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{}).Error
}
