package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentRecord is one ledger row: a user holding an asset for a span of
// time. Active iff ClosedAt is NULL. Records are closed, never deleted, so
// the full holder history of an asset is queryable.
//
// The partial unique index on (asset_id) WHERE closed_at IS NULL is what
// makes the one-active-holder invariant hold under concurrent writers: a
// second open row for the same asset fails at the database, not in
// application code.
type AssignmentRecord struct {
	AssignmentID uuid.UUID  `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssetID      uuid.UUID  `gorm:"column:asset_id;type:uuid;not null;index:idx_assignments_active,where:closed_at IS NULL,unique" json:"asset_id"`
	AssignedToID uuid.UUID  `gorm:"column:assigned_to_id;type:uuid;not null;index" json:"assigned_to_id"`
	AssignedByID *uuid.UUID `gorm:"column:assigned_by_id;type:uuid" json:"assigned_by_id"`
	ClosedAt     *time.Time `gorm:"column:closed_at;index" json:"closed_at"`
	CreatedAt    time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (AssignmentRecord) TableName() string {
	return "AssignmentRecords"
}

// BeforeCreate sets assignment_id if not already set (DBs without default uuid).
func (r *AssignmentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.AssignmentID == uuid.Nil {
		r.AssignmentID = uuid.New()
	}
	return nil
}

// Active reports whether the record is the asset's current assignment.
func (r *AssignmentRecord) Active() bool {
	return r.ClosedAt == nil
}
