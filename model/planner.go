package model

import (
	"time"

	"gorm.io/datatypes"
)

// Task is a to-do item.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"index:idx_task_user;size:36;not null" json:"userId"`
	Title       string    `gorm:"size:191;not null" json:"title"`
	IsCompleted bool      `gorm:"not null;default:false" json:"isCompleted"`
	IsTop3      bool      `gorm:"column:is_top3;not null;default:false" json:"isTop3"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Goal is a long-running goal track.
type Goal struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          string    `gorm:"index:idx_goal_user;size:36;not null" json:"userId"`
	Title           string    `gorm:"size:191;not null" json:"title"`
	Why             string    `gorm:"type:text" json:"why"`
	NorthStar       string    `gorm:"type:text" json:"northStar"`
	WeeklyMilestone string    `gorm:"type:text" json:"weeklyMilestone"`
	DailyMicroStep  string    `gorm:"type:text" json:"dailyMicroStep"`
	FallbackStep    string    `gorm:"type:text" json:"fallbackStep"`
	Progress        int       `gorm:"not null;default:0" json:"progress"`
	IsPaused        bool      `gorm:"not null;default:false" json:"isPaused"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// JournalEntry is one day's journal page; a user has at most one per date.
type JournalEntry struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	UserID       string         `gorm:"uniqueIndex:idx_journal_user_date,priority:1;size:36;not null" json:"userId"`
	Date         string         `gorm:"uniqueIndex:idx_journal_user_date,priority:2;size:10;not null" json:"date"`
	TarotCard    string         `gorm:"size:64" json:"tarotCard"`
	TarotMeaning string         `gorm:"size:191" json:"tarotMeaning"`
	Prompts      datatypes.JSON `json:"prompts"`
	Mood         int            `gorm:"not null;default:3" json:"mood"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CompatibilityProfile is a saved compatibility reading against someone else.
type CompatibilityProfile struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"index:idx_compat_user;size:36;not null" json:"userId"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	Sign      string         `gorm:"size:16;not null" json:"sign"`
	VibeScore int            `gorm:"not null" json:"vibeScore"`
	Strengths datatypes.JSON `json:"strengths"`
	Friction  string         `gorm:"size:191" json:"frictionTrigger"`
	Advice    string         `gorm:"size:191" json:"advice"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}
