package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stardust-app/server/model"
	"gorm.io/gorm"
)

// GoalInput carries the editable goal fields; nil fields are left unchanged
// on update.
type GoalInput struct {
	Title           *string `json:"title"`
	Why             *string `json:"why"`
	NorthStar       *string `json:"northStar"`
	WeeklyMilestone *string `json:"weeklyMilestone"`
	DailyMicroStep  *string `json:"dailyMicroStep"`
	FallbackStep    *string `json:"fallbackStep"`
	Progress        *int    `json:"progress"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ClampProgress bounds a progress value to 0..100.
func ClampProgress(p int) int {
	return min(100, max(0, p))
}

// Goals lists the user's goals, newest first.
func (svc *Service) Goals(ctx context.Context, userID string) ([]model.Goal, error) {
	goals := []model.Goal{}
	err := svc.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

// CreateGoal adds a goal. The title is required.
func (svc *Service) CreateGoal(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(str(in.Title))
	if title == "" {
		return nil, invalid("title is required")
	}
	goal := &model.Goal{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           title,
		Why:             str(in.Why),
		NorthStar:       str(in.NorthStar),
		WeeklyMilestone: str(in.WeeklyMilestone),
		DailyMicroStep:  str(in.DailyMicroStep),
		FallbackStep:    str(in.FallbackStep),
	}
	if in.Progress != nil {
		goal.Progress = ClampProgress(*in.Progress)
	}
	if err := svc.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

// Goal returns one goal of the user.
func (svc *Service) Goal(ctx context.Context, userID, id string) (*model.Goal, error) {
	return svc.goal(svc.db.WithContext(ctx), userID, id)
}

func (svc *Service) goal(db *gorm.DB, userID, id string) (*model.Goal, error) {
	var goal model.Goal
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("goal", id)
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal applies the non-nil fields. Progress is clamped to 0..100.
func (svc *Service) UpdateGoal(ctx context.Context, userID, id string, in GoalInput) (*model.Goal, error) {
	db := svc.db.WithContext(ctx)
	goal, err := svc.goal(db, userID, id)
	if err != nil {
		return nil, err
	}
	u := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		u["title"] = title
	}
	for col, v := range map[string]*string{
		"why":              in.Why,
		"north_star":       in.NorthStar,
		"weekly_milestone": in.WeeklyMilestone,
		"daily_micro_step": in.DailyMicroStep,
		"fallback_step":    in.FallbackStep,
	} {
		if v != nil {
			u[col] = *v
		}
	}
	if in.Progress != nil {
		u["progress"] = ClampProgress(*in.Progress)
	}
	if len(u) == 0 {
		return goal, nil
	}
	if err := db.Model(goal).Updates(u).Error; err != nil {
		return nil, err
	}
	return svc.goal(db, userID, id)
}

// SetGoalPaused pauses or resumes a goal.
func (svc *Service) SetGoalPaused(ctx context.Context, userID, id string, paused bool) (*model.Goal, error) {
	db := svc.db.WithContext(ctx)
	goal, err := svc.goal(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(goal).Update("is_paused", paused).Error; err != nil {
		return nil, err
	}
	goal.IsPaused = paused
	return goal, nil
}

// DeleteGoal removes a goal.
func (svc *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	res := svc.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("goal", id)
	}
	return nil
}
