package model

import (
	"time"

	"gorm.io/datatypes"
)

// DailyGuidance caches generated guidance per (sign, date).
type DailyGuidance struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	Sign      string         `gorm:"uniqueIndex:idx_guidance_sign_date,priority:1;size:16;not null" json:"sign"`
	Date      string         `gorm:"uniqueIndex:idx_guidance_sign_date,priority:2;size:10;not null" json:"date"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// DailyHoroscope caches generated horoscopes per (sign, date).
type DailyHoroscope struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	Sign      string         `gorm:"uniqueIndex:idx_horoscope_sign_date,priority:1;size:16;not null" json:"sign"`
	Date      string         `gorm:"uniqueIndex:idx_horoscope_sign_date,priority:2;size:10;not null" json:"date"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}
