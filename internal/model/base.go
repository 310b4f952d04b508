package model

import "time"

// BaseModel carries the audit timestamps embedded by every record type.
// The columns are nullable on purpose: rows written by schema version 1
// had no timestamps, and the v1→v2 store migration backfills them.
type BaseModel struct {
	CreatedAt *time.Time `gorm:"type:timestamptz" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"type:timestamptz" json:"updated_at,omitempty"`
}

// Touch stamps UpdatedAt, setting CreatedAt as well on first write.
func (b *BaseModel) Touch(now time.Time) {
	if b.CreatedAt == nil {
		b.CreatedAt = &now
	}
	b.UpdatedAt = &now
}
