package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains the id column shared by all tables. The schema predates this
// codebase, so ids are plain varchar uuids rather than a native uuid type.
type Base struct {
	ID string `gorm:"type:varchar(255);primaryKey" json:"id"`
}

// BeforeCreate assigns a fresh UUID when none was provided
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}
