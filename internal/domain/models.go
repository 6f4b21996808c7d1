// Package domain defines the persistence models for parts, sessions and the
// activity log. These types are mapped with GORM and form the core data layer
// of the inventory application.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stockrakh/stockrakh/internal/search"
)

// Part is a single stock-keeping unit tracked in the inventory.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - PartNumber: advisory-unique manufacturer/shop number (indexed, not unique).
//   - Code: optional short code, uppercase letters only.
//   - Quantity: units on hand, never negative (DB check + input validation).
//   - BuyingPrice / MRP: optional, nil when unknown.
//   - PartImages / BillImages: image-host URLs, stored as JSON arrays.
//   - CreatedAt / UpdatedAt: set by the mutation service.
//   - SearchText / SearchName: case-folded search documents, see Reindex.
type Part struct {
	ID            string                      `json:"id"                    gorm:"type:char(36);primaryKey"`
	PartName      string                      `json:"partName"              gorm:"type:varchar(255);not null;index:idx_inventory_part_name"`
	PartNumber    string                      `json:"partNumber"            gorm:"type:varchar(128);not null;index:idx_inventory_part_number"`
	Code          string                      `json:"code,omitempty"        gorm:"type:varchar(64);index:idx_inventory_code"`
	Quantity      int                         `json:"quantity"              gorm:"not null;default:0;index:idx_inventory_quantity;check:quantity >= 0"`
	Location      string                      `json:"location"              gorm:"type:varchar(255);not null;index:idx_inventory_location"`
	UnitOfMeasure string                      `json:"unitOfMeasure"         gorm:"type:varchar(64);not null"`
	Brand         string                      `json:"brand,omitempty"       gorm:"type:varchar(255);index:idx_inventory_brand"`
	Description   string                      `json:"description,omitempty" gorm:"type:text"`
	Supplier      string                      `json:"supplier,omitempty"    gorm:"type:varchar(255);index:idx_inventory_supplier"`
	BuyingPrice   *float64                    `json:"buyingPrice,omitempty"`
	MRP           *float64                    `json:"mrp,omitempty"         gorm:"column:mrp"`
	BillingDate   *time.Time                  `json:"billingDate,omitempty"`
	PartImages    datatypes.JSONSlice[string] `json:"partImages"`
	BillImages    datatypes.JSONSlice[string] `json:"billImages"`
	CreatedAt     time.Time                   `json:"createdAt"             gorm:"index:idx_inventory_created_at"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
	SearchText    string                      `json:"-"                     gorm:"type:text;not null;default:''"`
	SearchName    string                      `json:"-"                     gorm:"type:varchar(512);not null;default:''"`
}

// TableName returns the database table name for Part.
func (Part) TableName() string { return "inventory" }

// Images returns every image URL referenced by the part, part images first.
func (p *Part) Images() []string {
	out := make([]string, 0, len(p.PartImages)+len(p.BillImages))
	out = append(out, p.PartImages...)
	out = append(out, p.BillImages...)
	return out
}

// Normalize replaces nil image lists with empty ones so they encode as [].
func (p *Part) Normalize() {
	if p.PartImages == nil {
		p.PartImages = datatypes.JSONSlice[string]{}
	}
	if p.BillImages == nil {
		p.BillImages = datatypes.JSONSlice[string]{}
	}
}

// Reindex rebuilds the folded search columns from the current field values.
// The field order follows search.PartFields and search.NameOrNumber.
func (p *Part) Reindex() {
	p.SearchText = search.Document(p.PartName, p.PartNumber, p.Code, p.Brand, p.Supplier, p.Location, p.Description)
	p.SearchName = search.Document(p.PartName, p.PartNumber)
}

// AfterFind implements the GORM hook so loaded parts never carry nil lists.
func (p *Part) AfterFind(*gorm.DB) error {
	p.Normalize()
	return nil
}

// Session is a server-issued, time-bounded proof of authentication. The
// token is the opaque cookie value; rows are never swept, validity is checked
// on every use.
type Session struct {
	ID        string    `json:"-"         gorm:"type:char(36);primaryKey"`
	Token     string    `json:"-"         gorm:"type:varchar(128);not null;uniqueIndex:ux_sessions_token"`
	UserID    string    `json:"userId"    gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// ValidAt reports whether the session is still usable at now.
func (s Session) ValidAt(now time.Time) bool { return now.Before(s.ExpiresAt) }
