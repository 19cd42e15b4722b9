package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/quest"
	"github.com/stardust-app/server/model"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterJobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	g := guidance.NewService(db, c, time.Hour, zap.NewNop())
	q := quest.NewService(db, c, ps, nil, "", zap.NewNop())

	s := New(zap.NewNop())
	defer s.Stop()
	now := func() time.Time { return time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC) }
	RegisterJobs(s, g, q, time.Hour, now)
	assert.Equal(t, []string{TaskContentPrewarm, TaskLeaderboardRebuild}, s.ListTickers())

	require.NoError(t, s.Trigger(TaskContentPrewarm))
	var guidanceRows int64
	require.NoError(t, db.Model(&model.DailyGuidance{}).Count(&guidanceRows).Error)
	assert.Equal(t, int64(26), guidanceRows, "13 signs for today and tomorrow")
	var tomorrow int64
	require.NoError(t, db.Model(&model.DailyHoroscope{}).Where("date = ?", "2024-03-02").Count(&tomorrow).Error)
	assert.Equal(t, int64(13), tomorrow)

	testutil.SeedUser(t, db, "u1")
	require.NoError(t, db.Create(&model.Pet{ID: "p1", UserID: "u1", Name: "Nova", XP: 42}).Error)
	require.NoError(t, s.Trigger(TaskLeaderboardRebuild))
	score, err := c.ZScore(context.Background(), quest.LeaderboardKey, "u1")
	require.NoError(t, err)
	assert.Equal(t, float64(42), score)
}
