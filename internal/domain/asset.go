package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is a trackable item subject to lifecycle and assignment.
// AssignedToID mirrors the ledger's current active holder: it is non-nil
// only when Status == assigned, and is written in the same transaction as
// the ledger row so the two can never diverge.
type Asset struct {
	AssetID          uuid.UUID   `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	AssetNumber      string      `gorm:"column:asset_number;not null;uniqueIndex" json:"asset_number"`
	SerialNumber     string      `gorm:"column:serial_number;not null;uniqueIndex" json:"serial_number"`
	Name             string      `gorm:"column:name;not null" json:"name"`
	CategoryID       *uuid.UUID  `gorm:"column:category_id;type:uuid;index" json:"category_id"`
	Brand            string      `gorm:"column:brand" json:"brand"`
	Model            string      `gorm:"column:model" json:"model"`
	Location         string      `gorm:"column:location" json:"location"`
	Status           AssetStatus `gorm:"column:status;type:varchar(20);not null;default:'available';index" json:"status"`
	LastStatusChange time.Time   `gorm:"column:last_status_change" json:"last_status_change"`
	DepartmentID     *uuid.UUID  `gorm:"column:department_id;type:uuid;index" json:"department_id"`
	AssignedToID     *uuid.UUID  `gorm:"column:assigned_to_id;type:uuid" json:"assigned_to_id"`
	CreatedAt        time.Time   `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time   `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Asset) TableName() string {
	return "Assets"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusAvailable
	}
	if a.LastStatusChange.IsZero() {
		a.LastStatusChange = time.Now().UTC()
	}
	return nil
}
