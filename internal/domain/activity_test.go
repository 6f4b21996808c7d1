package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestActivityType_ParseAndString(t *testing.T) {
	for _, tc := range []struct {
		name string
		want ActivityType
	}{
		{"add", ActivityAdd},
		{"edit", ActivityEdit},
		{"delete", ActivityDelete},
		{"quantity_change", ActivityQuantityChange},
	} {
		got, err := ParseActivityType(tc.name)
		if err != nil || got != tc.want {
			t.Fatalf("ParseActivityType(%q) = %v, %v", tc.name, got, err)
		}
		if got.String() != tc.name {
			t.Fatalf("String() = %q; want %q", got.String(), tc.name)
		}
	}
	if _, err := ParseActivityType("restock"); err == nil {
		t.Fatalf("unknown names must be rejected")
	}
	if ActivityType(0).Valid() || ActivityType(9).Valid() {
		t.Fatalf("out-of-range values must be invalid")
	}
}

func TestActivityType_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		T ActivityType `json:"t"`
	}{ActivityQuantityChange})
	if err != nil || string(b) != `{"t":"quantity_change"}` {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	var v struct {
		T ActivityType `json:"t"`
	}
	if err := json.Unmarshal([]byte(`{"t":"edit"}`), &v); err != nil || v.T != ActivityEdit {
		t.Fatalf("unmarshal edit = %v, %v", v.T, err)
	}
	if err := json.Unmarshal([]byte(`{"t":"bogus"}`), &v); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := json.Marshal(ActivityType(0)); err == nil {
		t.Fatalf("expected error marshaling zero value")
	}
}

func TestActivityType_Scan(t *testing.T) {
	var a ActivityType
	if err := a.Scan([]byte("delete")); err != nil || a != ActivityDelete {
		t.Fatalf("scan bytes = %v, %v", a, err)
	}
	if err := a.Scan("add"); err != nil || a != ActivityAdd {
		t.Fatalf("scan string = %v, %v", a, err)
	}
	if err := a.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
	if err := a.Scan("other"); err == nil {
		t.Fatalf("expected error scanning unknown name")
	}
}

func TestActivity_PersistsTypeByName(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Activity{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	a := Activity{ID: "a1", Type: ActivityQuantityChange, PartName: "n", PartNumber: "x", CreatedAt: time.Now().UTC()}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var raw string
	if err := db.Raw("SELECT type FROM activities WHERE id = ?", "a1").Row().Scan(&raw); err != nil {
		t.Fatalf("raw scan: %v", err)
	}
	if raw != "quantity_change" {
		t.Fatalf("stored type = %q", raw)
	}

	var got Activity
	if err := db.First(&got, "id = ?", "a1").Error; err != nil || got.Type != ActivityQuantityChange {
		t.Fatalf("load = %+v, %v", got, err)
	}
}
