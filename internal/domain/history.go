package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusHistoryItem is the audit record of one accepted status transition.
// Append-only: nothing in the codebase updates or deletes rows of this
// table, and history survives hard deletion of the asset itself.
//
// Metadata carries the transition-specific fields (technician and expected
// end for maintenance, retirement reason and disposal method for
// retirement, assignee for assignment) as a JSON document.
type StatusHistoryItem struct {
	HistoryID   uuid.UUID      `gorm:"column:history_id;type:uuid;primaryKey" json:"history_id"`
	AssetID     uuid.UUID      `gorm:"column:asset_id;type:uuid;not null;index" json:"asset_id"`
	FromStatus  AssetStatus    `gorm:"column:from_status;type:varchar(20);not null" json:"from_status"`
	ToStatus    AssetStatus    `gorm:"column:to_status;type:varchar(20);not null" json:"to_status"`
	ChangeDate  time.Time      `gorm:"column:change_date;not null;index" json:"change_date"`
	ChangedByID *uuid.UUID     `gorm:"column:changed_by_id;type:uuid" json:"changed_by_id"`
	Reason      string         `gorm:"column:reason;type:varchar(40);not null" json:"reason"`
	Notes       string         `gorm:"column:notes" json:"notes"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:json" json:"metadata"`
	CreatedAt   time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (StatusHistoryItem) TableName() string {
	return "StatusHistory"
}

// BeforeCreate sets history_id and change_date when not provided.
func (h *StatusHistoryItem) BeforeCreate(tx *gorm.DB) error {
	if h.HistoryID == uuid.Nil {
		h.HistoryID = uuid.New()
	}
	if h.ChangeDate.IsZero() {
		h.ChangeDate = time.Now().UTC()
	}
	return nil
}
