package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups assets (laptops, monitors, vehicles, ...).
type Category struct {
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey" json:"category_id"`
	Name       string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "Categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.CategoryID == uuid.Nil {
		c.CategoryID = uuid.New()
	}
	return nil
}

// Department is the organizational unit an asset or user belongs to.
type Department struct {
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;primaryKey" json:"department_id"`
	Name         string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Location     string    `gorm:"column:location" json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Department) TableName() string {
	return "Departments"
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.DepartmentID == uuid.Nil {
		d.DepartmentID = uuid.New()
	}
	return nil
}
