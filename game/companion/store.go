package companion

import (
	"context"
	"errors"

	"github.com/stardust-app/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoSnapshot is returned by a SnapshotStore that holds nothing for an owner.
var ErrNoSnapshot = errors.New("companion: no snapshot")

// SnapshotStore persists encoded snapshots per owner.
type SnapshotStore interface {
	Load(ctx context.Context, owner string) ([]byte, error)
	Save(ctx context.Context, owner string, data []byte) error
}

// GormSnapshotStore keeps snapshots in the companion_snapshots table.
type GormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore creates a store over db.
func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

func (s *GormSnapshotStore) Load(ctx context.Context, owner string) ([]byte, error) {
	var row model.CompanionSnapshot
	err := s.db.WithContext(ctx).Where("user_id = ?", owner).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Data), nil
}

func (s *GormSnapshotStore) Save(ctx context.Context, owner string, data []byte) error {
	row := model.CompanionSnapshot{
		UserID:  owner,
		Version: SnapshotVersion,
		Data:    datatypes.JSON(data),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "data", "updated_at"}),
	}).Create(&row).Error
}
