// Package audit keeps the XP ledger: every award, evolution and account
// action is queued in memory and written to audit_logs in batches.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded in the ledger.
const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionQuestComplete = "quest_complete"
	ActionPetFeed       = "pet_feed"
	ActionPetEvolve     = "pet_evolve"
	ActionSnapshotPut   = "snapshot_put"
)

const (
	defaultFlushInterval = 2 * time.Second
	defaultBatchSize     = 100
	defaultQueueSize     = 1024
	maxHistory           = 200
)

// Entry is one ledger event.
type Entry struct {
	TraceID    string
	UserID     string
	Action     string
	XPDelta    int
	Detail     interface{}
	Error      string
	IP         string
	DurationMs int
}

// ActionTotal sums a user's ledger rows for one action.
type ActionTotal struct {
	Action  string `json:"action"`
	Entries int    `json:"entries"`
	XP      int    `json:"xp"`
}

// Option tunes the batching worker.
type Option func(*Service)

// WithFlushInterval sets how often a partial batch is written.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.flushEvery = d
		}
	}
}

// WithBatchSize sets how many queued entries force an immediate write.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Service writes ledger entries asynchronously. Log never blocks a request;
// a full queue drops the entry with a warning.
type Service struct {
	db         *gorm.DB
	ch         chan *model.AuditLog
	stopCh     chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	flushEvery time.Duration
	batchSize  int
	logger     *zap.Logger
}

// New creates a Service and starts its worker.
func New(db *gorm.DB, logger *zap.Logger, opts ...Option) *Service {
	svc := &Service{
		db:         db,
		ch:         make(chan *model.AuditLog, defaultQueueSize),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		flushEvery: defaultFlushInterval,
		batchSize:  defaultBatchSize,
		logger:     logger,
	}
	for _, o := range opts {
		o(svc)
	}
	go svc.worker()
	return svc
}

// Log queues entry. A nil Service drops it.
func (svc *Service) Log(entry Entry) {
	if svc == nil {
		return
	}
	record := &model.AuditLog{
		TraceID:    entry.TraceID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		XPDelta:    entry.XPDelta,
		Error:      entry.Error,
		IP:         entry.IP,
		DurationMs: entry.DurationMs,
	}
	if entry.Detail != nil {
		if b, err := json.Marshal(entry.Detail); err == nil {
			record.Detail = datatypes.JSON(b)
		}
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit queue full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("user_id", entry.UserID),
			zap.Int("xp_delta", entry.XPDelta))
	}
}

// Stop drains the queue and waits for the final write. It returns ctx.Err()
// if ctx ends first; the worker still finishes in the background.
func (svc *Service) Stop(ctx context.Context) error {
	svc.stopOnce.Do(func() { close(svc.stopCh) })
	select {
	case <-svc.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// XPHistory returns a user's XP-bearing ledger rows, newest first.
func (svc *Service) XPHistory(ctx context.Context, userID string, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > maxHistory {
		limit = 50
	}
	var logs []model.AuditLog
	err := svc.db.WithContext(ctx).
		Where("user_id = ? AND xp_delta <> 0", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// XPTotals groups a user's ledger by action. The XP column summed over all
// actions should equal the pet's XP.
func (svc *Service) XPTotals(ctx context.Context, userID string) ([]ActionTotal, error) {
	var totals []ActionTotal
	err := svc.db.WithContext(ctx).Model(&model.AuditLog{}).
		Select("action, COUNT(*) AS entries, COALESCE(SUM(xp_delta), 0) AS xp").
		Where("user_id = ?", userID).
		Group("action").
		Order("action").
		Scan(&totals).Error
	return totals, err
}

func (svc *Service) worker() {
	defer close(svc.done)
	ticker := time.NewTicker(svc.flushEvery)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, svc.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.CreateInBatches(batch, svc.batchSize).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Error(err), zap.Int("size", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= svc.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
