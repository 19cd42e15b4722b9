package model

import (
	"time"

	"gorm.io/datatypes"
)

// CompanionSnapshot is the persisted client aggregate of one user.
type CompanionSnapshot struct {
	UserID    string         `gorm:"primaryKey;size:36" json:"userId"`
	Version   int            `gorm:"not null" json:"version"`
	Data      datatypes.JSON `gorm:"not null" json:"data"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
