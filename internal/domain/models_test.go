package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Part{}).TableName():        "inventory",
		(Session{}).TableName():     "sessions",
		(Activity{}).TableName():    "activities",
		(Idempotency{}).TableName(): "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Part{}, &Session{}, &Activity{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, idx := range []string{
		"idx_inventory_part_name", "idx_inventory_part_number", "idx_inventory_code",
		"idx_inventory_brand", "idx_inventory_supplier", "idx_inventory_location",
		"idx_inventory_quantity", "idx_inventory_created_at",
	} {
		if !m.HasIndex(&Part{}, idx) {
			t.Fatalf("expected index %s on inventory", idx)
		}
	}
	if !m.HasIndex(&Session{}, "ux_sessions_token") {
		t.Fatalf("expected unique token index on sessions")
	}
	if !m.HasIndex(&Idempotency{}, "ux_user_scope_key") {
		t.Fatalf("expected unique index on idempotency")
	}
}

func TestPart_NegativeQuantityRejectedByCheck(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Part{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	p := Part{ID: "p1", PartName: "n", PartNumber: "x", Quantity: -1, Location: "A", UnitOfMeasure: "pcs"}
	p.Normalize()
	if err := db.Create(&p).Error; err == nil {
		t.Fatalf("expected check constraint violation for negative quantity")
	}
}

func TestPart_ImagesRoundTrip_AndAfterFindNormalizes(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Part{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	p := Part{
		ID: "p1", PartName: "Brake Pad", PartNumber: "BP-100", Location: "A1", UnitOfMeasure: "pcs",
		PartImages: datatypes.JSONSlice[string]{"https://img/a.jpg"},
	}
	p.Normalize()
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var got Part
	if err := db.First(&got, "id = ?", "p1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.PartImages) != 1 || got.PartImages[0] != "https://img/a.jpg" {
		t.Fatalf("part images round-trip: %#v", got.PartImages)
	}
	if got.BillImages == nil || len(got.BillImages) != 0 {
		t.Fatalf("bill images should be empty, non-nil: %#v", got.BillImages)
	}
	if imgs := got.Images(); len(imgs) != 1 {
		t.Fatalf("Images() = %v", imgs)
	}
}

func TestSession_ValidAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Second)}
	if !s.ValidAt(now) {
		t.Fatalf("session should be valid before expiry")
	}
	if s.ValidAt(now.Add(time.Second)) {
		t.Fatalf("session must be invalid exactly at expiry")
	}
}

func TestPart_Reindex(t *testing.T) {
	p := Part{PartName: "Ölfilter", PartNumber: "OF-1", Brand: "MÜLLER", Location: "Regal 3"}
	p.Reindex()
	if p.SearchText != "ölfilter\nof-1\nmüller\nregal 3" {
		t.Fatalf("search text = %q", p.SearchText)
	}
	if p.SearchName != "ölfilter\nof-1" {
		t.Fatalf("search name = %q", p.SearchName)
	}
}
