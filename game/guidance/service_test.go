package guidance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
	"github.com/stardust-app/server/model"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = seed.Date{Year: 2024, Month: time.March, Day: 1}

func TestGuidance_MatchesGenerator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c, _ := testutil.SetupTestCache(t)
	svc := NewService(db, c, time.Hour, zap.NewNop())
	ctx := context.Background()

	got, err := svc.Guidance(ctx, content.Leo, day)
	require.NoError(t, err)
	want := content.GenerateDailyGuidance(content.Leo, day)
	assert.Equal(t, want, *got)

	var count int64
	db.Model(&model.DailyGuidance{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = c.Get(ctx, CacheKey("guidance", content.Leo, day))
	assert.NoError(t, err)
}

func TestGuidance_ServesStoredRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, nil, 0, zap.NewNop())
	ctx := context.Background()

	// A stored payload wins over regeneration.
	require.NoError(t, db.Create(&model.DailyGuidance{
		Sign: "Leo", Date: "2024-03-01",
		Payload: []byte(`{"sign":"Leo","date":"2024-03-01","theme":"stored theme"}`),
	}).Error)

	got, err := svc.Guidance(ctx, content.Leo, day)
	require.NoError(t, err)
	assert.Equal(t, "stored theme", got.Theme)
}

func TestGuidance_CacheFastPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c, _ := testutil.SetupTestCache(t)
	svc := NewService(db, c, time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, CacheKey("guidance", content.Aries, day), `{"theme":"cached"}`, time.Hour))
	got, err := svc.Guidance(ctx, content.Aries, day)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Theme)

	var count int64
	db.Model(&model.DailyGuidance{}).Count(&count)
	assert.Zero(t, count)
}

func TestGuidance_ConcurrentSingleRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, nil, 0, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Guidance(ctx, content.Pisces, day)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	db.Model(&model.DailyGuidance{}).Where("sign = ?", "Pisces").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestHoroscope_NotSureIsUniversal(t *testing.T) {
	svc := NewService(testutil.SetupTestDB(t), nil, 0, zap.NewNop())
	h, err := svc.Horoscope(context.Background(), content.NotSure, day)
	require.NoError(t, err)
	assert.Equal(t, "Universal", h.DisplaySign)
	assert.Equal(t, content.NotSure, h.Sign)
	assert.Equal(t, content.GenerateDailyHoroscope(content.NotSure, day), *h)
}

func TestPrewarm_AllSigns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c, _ := testutil.SetupTestCache(t)
	svc := NewService(db, c, time.Hour, zap.NewNop())

	n, err := svc.Prewarm(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2*len(content.AllSigns), n)

	var g, h int64
	db.Model(&model.DailyGuidance{}).Count(&g)
	db.Model(&model.DailyHoroscope{}).Count(&h)
	assert.Equal(t, int64(len(content.AllSigns)), g)
	assert.Equal(t, int64(len(content.AllSigns)), h)
}
