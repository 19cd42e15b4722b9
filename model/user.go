package model

import "time"

// User is a registered account.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash   string    `gorm:"size:72;not null" json:"-"`
	Name           string    `gorm:"size:64;not null" json:"name"`
	Sign           string    `gorm:"size:16;not null;default:NotSure" json:"sign"`
	TimePreference int       `gorm:"not null;default:20" json:"timePreference"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Pet            *Pet      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"pet,omitempty"`
}

// Pet is the server-side companion of a user. Dates are stored as YYYY-MM-DD
// strings so the conditional updates compare them directly in SQL.
type Pet struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	UserID            string     `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Name              string     `gorm:"size:64;not null" json:"name"`
	Stage             string     `gorm:"size:16;not null;default:Egg" json:"stage"`
	XP                int        `gorm:"column:xp;not null;default:0" json:"xp"`
	HasHatched        bool       `gorm:"not null;default:false" json:"hasHatched"`
	Streak            int        `gorm:"not null;default:0" json:"streak"`
	StreakDate        string     `gorm:"size:10;not null;default:''" json:"streakDate"`
	LastFedDate       string     `gorm:"size:10;not null;default:''" json:"lastFedDate"`
	LastInteractionAt *time.Time `json:"lastInteractionAt"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}
