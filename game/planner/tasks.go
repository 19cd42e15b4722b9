package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const taskOrder = "is_top3 DESC, sort_order ASC, created_at DESC"

// TaskPatch holds the fields of an update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"isCompleted"`
	IsTop3      *bool   `json:"isTop3"`
	Order       *int    `json:"order"`
}

// SyncTask is one entry of a bulk sync.
type SyncTask struct {
	ID string `json:"id"`
	TaskPatch
}

// Tasks lists the user's tasks, Top 3 first.
func (svc *Service) Tasks(ctx context.Context, userID string) ([]model.Task, error) {
	tasks := []model.Task{}
	err := svc.db.WithContext(ctx).Where("user_id = ?", userID).Order(taskOrder).Find(&tasks).Error
	return tasks, err
}

// CreateTask adds a task. The title is required.
func (svc *Service) CreateTask(ctx context.Context, userID, title string, top3 bool) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	task := &model.Task{ID: uuid.NewString(), UserID: userID, Title: title, IsTop3: top3}
	if err := svc.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Task returns one task of the user.
func (svc *Service) Task(ctx context.Context, userID, id string) (*model.Task, error) {
	return svc.task(svc.db.WithContext(ctx), userID, id)
}

func (svc *Service) task(db *gorm.DB, userID, id string) (*model.Task, error) {
	var task model.Task
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask flips completion in place.
func (svc *Service) ToggleTask(ctx context.Context, userID, id string) (*model.Task, error) {
	db := svc.db.WithContext(ctx)
	res := db.Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_completed", gorm.Expr("NOT is_completed"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("task", id)
	}
	return svc.task(db, userID, id)
}

// UpdateTask applies a patch.
func (svc *Service) UpdateTask(ctx context.Context, userID, id string, p TaskPatch) (*model.Task, error) {
	db := svc.db.WithContext(ctx)
	task, err := svc.task(db, userID, id)
	if err != nil {
		return nil, err
	}
	updates, err := p.updates()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return task, nil
	}
	if err := db.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}
	return svc.task(db, userID, id)
}

func (p TaskPatch) updates() (map[string]interface{}, error) {
	u := map[string]interface{}{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		u["title"] = title
	}
	if p.IsCompleted != nil {
		u["is_completed"] = *p.IsCompleted
	}
	if p.IsTop3 != nil {
		u["is_top3"] = *p.IsTop3
	}
	if p.Order != nil {
		u["sort_order"] = *p.Order
	}
	return u, nil
}

// DeleteTask removes a task.
func (svc *Service) DeleteTask(ctx context.Context, userID, id string) error {
	res := svc.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("task", id)
	}
	return nil
}

// SyncTasks upserts a batch of client tasks by ID and returns the full list.
// Entries without an ID, new entries without a title and IDs owned by
// another user are skipped.
func (svc *Service) SyncTasks(ctx context.Context, userID string, batch []SyncTask) ([]model.Task, error) {
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range batch {
			if in.ID == "" {
				continue
			}
			var existing model.Task
			err := tx.Where("id = ?", in.ID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
					continue
				}
				task := model.Task{ID: in.ID, UserID: userID, Title: strings.TrimSpace(*in.Title)}
				if in.IsCompleted != nil {
					task.IsCompleted = *in.IsCompleted
				}
				if in.IsTop3 != nil {
					task.IsTop3 = *in.IsTop3
				}
				if in.Order != nil {
					task.Order = *in.Order
				}
				if err := tx.Create(&task).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			case existing.UserID != userID:
				svc.logger.Warn("task sync skipped foreign id", zap.String("user_id", userID), zap.String("task_id", in.ID))
			default:
				updates, err := in.TaskPatch.updates()
				if err != nil {
					continue
				}
				if len(updates) > 0 {
					if err := tx.Model(&existing).Updates(updates).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc.Tasks(ctx, userID)
}
