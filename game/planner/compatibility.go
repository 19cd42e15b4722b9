package planner

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fallbackUserSign is used for users without a usable sign of their own.
const fallbackUserSign = content.Aries

// CalculateCompatibility scores the user's sign against someone else's and
// saves the reading as a profile.
func (svc *Service) CalculateCompatibility(ctx context.Context, userID, name, sign string) (*model.CompatibilityProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(sign) == "" {
		return nil, invalid("name and sign are required")
	}
	other := content.ParseSign(sign)

	db := svc.db.WithContext(ctx)
	mine := fallbackUserSign
	var user model.User
	err := db.Select("sign").Where("id = ?", userID).First(&user).Error
	switch {
	case err == nil:
		if s := content.ParseSign(user.Sign); s != content.NotSure {
			mine = s
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	reading := content.Compatibility(mine, other)
	strengths, err := json.Marshal(reading.Strengths)
	if err != nil {
		return nil, err
	}
	profile := &model.CompatibilityProfile{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Sign:      string(other),
		VibeScore: reading.Score,
		Strengths: datatypes.JSON(strengths),
		Friction:  reading.Friction,
		Advice:    reading.Advice,
	}
	if err := db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CompatibilityProfiles lists saved readings, newest first.
func (svc *Service) CompatibilityProfiles(ctx context.Context, userID string) ([]model.CompatibilityProfile, error) {
	profiles := []model.CompatibilityProfile{}
	err := svc.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

// DeleteCompatibilityProfile removes a saved reading.
func (svc *Service) DeleteCompatibilityProfile(ctx context.Context, userID, id string) error {
	res := svc.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.CompatibilityProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("profile", id)
	}
	return nil
}
