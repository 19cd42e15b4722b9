// Package account registers users, checks their passwords and edits their
// profile. Every user gets a pet at registration.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("account: email already registered")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	ErrNotFound           = errors.New("account: user not found")
	ErrValidation         = errors.New("account: validation failed")
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// Registration is the input of Register.
type Registration struct {
	Email          string
	Password       string
	Name           string
	Sign           string
	TimePreference int
}

// ProfilePatch holds profile edits; nil fields are left unchanged.
type ProfilePatch struct {
	Name           *string `json:"name"`
	Sign           *string `json:"sign"`
	TimePreference *int    `json:"timePreference"`
}

type Service struct {
	db             *gorm.DB
	bcryptCost     int
	petName        string
	defaultMinutes int
	logger         *zap.Logger
}

// NewService creates an account Service. A zero cost uses bcrypt.DefaultCost.
func NewService(db *gorm.DB, bcryptCost int, petName string, defaultMinutes int, logger *zap.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if petName == "" {
		petName = companion.DefaultPetName
	}
	if defaultMinutes <= 0 {
		defaultMinutes = content.DefaultTimeAvailable
	}
	return &Service{db: db, bcryptCost: bcryptCost, petName: petName, defaultMinutes: defaultMinutes, logger: logger}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }

// Register creates the user and their egg in one transaction.
func (svc *Service) Register(ctx context.Context, in Registration) (*model.User, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, invalid("a valid email is required")
	case len(in.Password) < MinPasswordLen:
		return nil, invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	case name == "":
		return nil, invalid("name is required")
	case strings.TrimSpace(in.Sign) == "":
		return nil, invalid("sign is required")
	}
	minutes := in.TimePreference
	if minutes <= 0 {
		minutes = svc.defaultMinutes
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), svc.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Sign:           string(content.ParseSign(in.Sign)),
		TimePreference: minutes,
	}
	pet := &model.Pet{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Name:   svc.petName,
		Stage:  string(companion.StageEgg),
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return tx.Create(pet).Error
	})
	if err != nil {
		return nil, err
	}
	user.Pet = pet
	svc.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("sign", user.Sign))
	return user, nil
}

// Login checks the password and returns the user with their pet.
func (svc *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := svc.db.WithContext(ctx).Preload("Pet").Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// User returns a user with their pet.
func (svc *Service) User(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := svc.db.WithContext(ctx).Preload("Pet").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields. Unknown signs are stored as
// NotSure.
func (svc *Service) UpdateProfile(ctx context.Context, id string, p ProfilePatch) (*model.User, error) {
	u := map[string]interface{}{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("name is required")
		}
		u["name"] = name
	}
	if p.Sign != nil {
		u["sign"] = string(content.ParseSign(*p.Sign))
	}
	if p.TimePreference != nil {
		if *p.TimePreference <= 0 {
			return nil, invalid("timePreference must be positive")
		}
		u["time_preference"] = *p.TimePreference
	}
	if len(u) > 0 {
		res := svc.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(u)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return svc.User(ctx, id)
}

// isUniqueViolation detects duplicate-key errors from common database drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
