package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records XP awards and other account actions.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36" json:"traceId"`
	UserID     string         `gorm:"index:idx_audit_user;size:36" json:"userId"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	XPDelta    int            `gorm:"column:xp_delta;not null;default:0" json:"xpDelta"`
	Detail     datatypes.JSON `json:"detail"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"durationMs"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"createdAt"`
}
