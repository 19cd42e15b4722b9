package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stardust-app/server/model"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLedger(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop(), opts...)
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc, db
}

func countRows(db *gorm.DB) int64 {
	var n int64
	db.Model(&model.AuditLog{}).Count(&n)
	return n
}

func TestLog_QuestAwardPersisted(t *testing.T) {
	svc, db := newLedger(t)

	svc.Log(Entry{
		TraceID:    "trace-123",
		UserID:     "user-1",
		Action:     ActionQuestComplete,
		XPDelta:    50,
		Detail:     map[string]string{"questType": "Main"},
		IP:         "127.0.0.1",
		DurationMs: 42,
	})
	require.NoError(t, svc.Stop(context.Background()))

	var logs []model.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	got := logs[0]
	assert.Equal(t, "trace-123", got.TraceID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, ActionQuestComplete, got.Action)
	assert.Equal(t, 50, got.XPDelta)
	assert.JSONEq(t, `{"questType":"Main"}`, string(got.Detail))
	assert.Equal(t, "127.0.0.1", got.IP)
	assert.Equal(t, 42, got.DurationMs)
}

func TestStop_DrainsQueue(t *testing.T) {
	svc, db := newLedger(t, WithFlushInterval(time.Hour))
	for i := 0; i < 250; i++ {
		svc.Log(Entry{UserID: "u1", Action: ActionPetFeed, XPDelta: 10})
	}
	require.NoError(t, svc.Stop(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, int64(250), countRows(db))
}

func TestBatchSizeForcesWrite(t *testing.T) {
	svc, db := newLedger(t, WithFlushInterval(time.Hour), WithBatchSize(5))
	for i := 0; i < 5; i++ {
		svc.Log(Entry{Action: ActionLogin})
	}
	assert.Eventually(t, func() bool { return countRows(db) == 5 }, 2*time.Second, 10*time.Millisecond)
}

func TestFlushInterval(t *testing.T) {
	svc, db := newLedger(t, WithFlushInterval(20*time.Millisecond))
	svc.Log(Entry{Action: ActionRegister})
	assert.Eventually(t, func() bool { return countRows(db) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStop_HonoursContext(t *testing.T) {
	svc, _ := newLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The worker may or may not beat the cancelled context.
	err := svc.Stop(ctx)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
	require.NoError(t, svc.Stop(context.Background()))
}

func TestLog_NilService(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() { svc.Log(Entry{Action: ActionLogin}) })
}

func TestLog_FloodDoesNotBlock(t *testing.T) {
	svc, db := newLedger(t, WithFlushInterval(time.Hour), WithBatchSize(10_000))
	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultQueueSize+50; i++ {
			svc.Log(Entry{Action: "flood"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Log blocked on a full queue")
	}
	require.NoError(t, svc.Stop(context.Background()))
	assert.LessOrEqual(t, countRows(db), int64(defaultQueueSize+50))
	assert.Positive(t, countRows(db))
}

func TestXPHistoryAndTotals(t *testing.T) {
	svc, _ := newLedger(t)

	svc.Log(Entry{UserID: "u1", Action: ActionQuestComplete, XPDelta: 50})
	svc.Log(Entry{UserID: "u1", Action: ActionQuestComplete, XPDelta: 20})
	svc.Log(Entry{UserID: "u1", Action: ActionLogin})
	svc.Log(Entry{UserID: "u1", Action: ActionPetFeed, XPDelta: 10})
	svc.Log(Entry{UserID: "u2", Action: ActionPetFeed, XPDelta: 10})
	require.NoError(t, svc.Stop(context.Background()))
	ctx := context.Background()

	logs, err := svc.XPHistory(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Equal(t, "u1", l.UserID)
		assert.NotZero(t, l.XPDelta)
	}

	limited, err := svc.XPHistory(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	totals, err := svc.XPTotals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []ActionTotal{
		{Action: ActionLogin, Entries: 1, XP: 0},
		{Action: ActionPetFeed, Entries: 1, XP: 10},
		{Action: ActionQuestComplete, Entries: 2, XP: 70},
	}, totals)

	none, err := svc.XPTotals(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
