// Package planner stores the user's own planning data: tasks, goals,
// journal pages, compatibility readings and the calendar built from them.
package planner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("planner: not found")
	ErrValidation = errors.New("planner: validation failed")
)

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Service is the row store of all planner data. Every query is scoped to
// the calling user; rows of other users read as not found.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a planner Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}
