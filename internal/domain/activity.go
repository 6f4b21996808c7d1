package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType is the closed set of audit events recorded for parts. The zero
// value is not a valid type; decoding any string outside the set fails.
type ActivityType uint8

// Activity types.
const (
	ActivityAdd ActivityType = iota + 1
	ActivityEdit
	ActivityDelete
	ActivityQuantityChange
)

var activityTypeNames = map[ActivityType]string{
	ActivityAdd:            "add",
	ActivityEdit:           "edit",
	ActivityDelete:         "delete",
	ActivityQuantityChange: "quantity_change",
}

// ParseActivityType maps the wire/storage name back to an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	for t, name := range activityTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown activity type %q", s)
}

// String returns the wire name, or "" for an invalid value.
func (t ActivityType) String() string { return activityTypeNames[t] }

// Valid reports whether t is one of the four known variants.
func (t ActivityType) Valid() bool {
	_, ok := activityTypeNames[t]
	return ok
}

// MarshalJSON encodes the type as its wire name.
func (t ActivityType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid activity type %d", uint8(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts only the four wire names.
func (t *ActivityType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseActivityType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Value implements driver.Valuer; activity types are stored by name.
func (t ActivityType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid activity type %d", uint8(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *ActivityType) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ActivityType", src)
	}
	parsed, err := ParseActivityType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Activity is an append-only audit entry for a part mutation. Part name and
// number are captured at event time so history survives deletion of the part.
type Activity struct {
	ID         string       `json:"id"                gorm:"type:char(36);primaryKey"`
	Type       ActivityType `json:"type"              gorm:"type:varchar(32);not null"`
	PartID     *string      `json:"partId,omitempty"  gorm:"type:char(36);index:idx_activities_part"`
	PartName   string       `json:"partName"          gorm:"type:varchar(255);not null"`
	PartNumber string       `json:"partNumber"        gorm:"type:varchar(128);not null"`
	Details    *string      `json:"details,omitempty" gorm:"type:text"`
	CreatedAt  time.Time    `json:"createdAt"         gorm:"index:idx_activities_created_at"`
}

// TableName returns the database table name for Activity.
func (Activity) TableName() string { return "activities" }
