package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/domain"
)

// AppendActivity records one event about part. The part's name and number
// are copied so the entry survives the part's deletion. The log is
// append-only; this package exposes no update or delete for activities.
func AppendActivity(ctx context.Context, db *gorm.DB, typ domain.ActivityType, part *domain.Part, details *string) (*domain.Activity, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("repo: invalid activity type %d", typ)
	}
	a := &domain.Activity{
		ID:         uuid.NewString(),
		Type:       typ,
		PartName:   part.PartName,
		PartNumber: part.PartNumber,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	if part.ID != "" {
		id := part.ID
		a.PartID = &id
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// CountActivities returns the number of recorded activities.
func CountActivities(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Activity{}).Count(&total).Error
	return total, err
}

// ListActivitiesPage returns a page of activities, newest first.
func ListActivitiesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Activity, error) {
	out := []domain.Activity{}
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
