package model

import "time"

// Quest is one generated daily quest owned by a user. (user_id, date, type)
// is unique so concurrent generation for the same day converges on one set.
type Quest struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	UserID           string     `gorm:"uniqueIndex:idx_quest_user_date_type,priority:1;size:36;not null" json:"userId"`
	Date             string     `gorm:"uniqueIndex:idx_quest_user_date_type,priority:2;size:10;not null" json:"date"`
	Type             string     `gorm:"uniqueIndex:idx_quest_user_date_type,priority:3;size:16;not null" json:"type"`
	Slug             string     `gorm:"size:32;not null" json:"slug"`
	Title            string     `gorm:"size:191;not null" json:"title"`
	XP               int        `gorm:"column:xp;not null" json:"xp"`
	EstimatedMinutes int        `gorm:"not null" json:"estimatedMinutes"`
	TinyVersion      string     `gorm:"size:191" json:"tinyVersion,omitempty"`
	IsCompleted      bool       `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt      *time.Time `json:"completedAt"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}
