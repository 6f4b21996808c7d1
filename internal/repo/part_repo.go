// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Part model
// (the "inventory" table).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a part is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/domain"
	"github.com/stockrakh/stockrakh/internal/search"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// PartFilter narrows part listings. The zero value matches every part.
type PartFilter struct {
	Query      string       // substring, case-insensitive
	Index      search.Index // column matched by Query; defaults to search.PartFields
	OutOfStock bool         // quantity = 0 only
	Supplier   string       // exact match when non-empty
}

func (f PartFilter) apply(q *gorm.DB) *gorm.DB {
	if f.OutOfStock {
		q = q.Where("quantity = ?", 0)
	}
	if f.Supplier != "" {
		q = q.Where("supplier = ?", f.Supplier)
	}
	idx := f.Index
	if idx.Column == "" {
		idx = search.PartFields
	}
	if p, ok := search.Substring(f.Query, idx); ok {
		q = q.Where(p.SQL, p.Args...)
	}
	return q
}

// CreatePart inserts p. A missing ID is filled with a random UUID and zero
// timestamps are set to now (UTC).
func CreatePart(ctx context.Context, db *gorm.DB, p *domain.Part) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	p.Normalize()
	p.Reindex()
	return db.WithContext(ctx).Create(p).Error
}

// GetPart fetches a single part by ID, or ErrNotFound.
func GetPart(ctx context.Context, db *gorm.DB, id string) (*domain.Part, error) {
	var p domain.Part
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePart overwrites every mutable column of the part identified by p.ID,
// zero values included. p.UpdatedAt is stored as given (now when zero). It
// returns ErrNotFound when no row matched.
func SavePart(ctx context.Context, db *gorm.DB, p *domain.Part) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	p.Normalize()
	p.Reindex()
	// Without SkipHooks gorm replaces updated_at with its own NowFunc.
	res := db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&domain.Part{}).
		Where("id = ?", p.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePart removes the part row. It returns ErrNotFound when no row matched.
func DeletePart(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Part{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountParts returns how many parts match f.
func CountParts(ctx context.Context, db *gorm.DB, f PartFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Part{})).Count(&total).Error
	return total, err
}

// ListPartsPage returns a page of parts matching f, newest first. The id
// tie-breaker keeps pages stable when several parts share a timestamp.
func ListPartsPage(ctx context.Context, db *gorm.DB, f PartFilter, offset, limit int) ([]domain.Part, error) {
	out := []domain.Part{}
	err := f.apply(db.WithContext(ctx).Model(&domain.Part{})).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListOutOfStockPage returns a page of quantity-0 parts matching f, sorted
// alphabetically by part name.
func ListOutOfStockPage(ctx context.Context, db *gorm.DB, f PartFilter, offset, limit int) ([]domain.Part, error) {
	f.OutOfStock = true
	out := []domain.Part{}
	err := f.apply(db.WithContext(ctx).Model(&domain.Part{})).
		Order("part_name asc").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// OutOfStockSuppliers returns the distinct non-empty suppliers of every
// quantity-0 part, ascending.
func OutOfStockSuppliers(ctx context.Context, db *gorm.DB) ([]string, error) {
	out := []string{}
	err := db.WithContext(ctx).
		Model(&domain.Part{}).
		Where("quantity = ? AND supplier <> ''", 0).
		Distinct().
		Order("supplier asc").
		Pluck("supplier", &out).Error
	return out, err
}

// FindPartByNumber returns the first part whose part number equals number
// exactly, skipping excludeID when non-empty.
func FindPartByNumber(ctx context.Context, db *gorm.DB, number, excludeID string) (*domain.Part, error) {
	q := db.WithContext(ctx).Where("part_number = ?", number)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var p domain.Part
	if err := q.Order("created_at asc").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPartsByIDs loads the parts with the given IDs. Unknown IDs are skipped.
func GetPartsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Part, error) {
	out := []domain.Part{}
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// InventoryValue sums buying_price * quantity over parts that have a buying
// price. Parts without one contribute nothing.
func InventoryValue(ctx context.Context, db *gorm.DB) (float64, error) {
	var v sql.NullFloat64
	err := db.WithContext(ctx).
		Model(&domain.Part{}).
		Select("SUM(buying_price * quantity)").
		Where("buying_price IS NOT NULL").
		Row().
		Scan(&v)
	if err != nil {
		return 0, err
	}
	return v.Float64, nil
}

// ReindexParts fills the search columns of rows written before they existed.
func ReindexParts(ctx context.Context, db *gorm.DB) error {
	w := db.WithContext(ctx).Session(&gorm.Session{NewDB: true})
	var batch []domain.Part
	return db.WithContext(ctx).
		Where("search_text = ? OR search_text IS NULL", "").
		FindInBatches(&batch, 200, func(*gorm.DB, int) error {
			for i := range batch {
				batch[i].Reindex()
				err := w.Model(&domain.Part{}).
					Where("id = ?", batch[i].ID).
					UpdateColumns(map[string]any{
						"search_text": batch[i].SearchText,
						"search_name": batch[i].SearchName,
					}).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}
