package companion

import (
	"context"
	"testing"
	"time"

	"github.com/stardust-app/server/model"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormSnapshotStore_LoadMissing(t *testing.T) {
	store := NewGormSnapshotStore(testutil.SetupTestDB(t))
	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestGormSnapshotStore_SaveOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewGormSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "u1", []byte(`{"version":1,"state":{}}`)))
	require.NoError(t, store.Save(ctx, "u1", []byte(`{"version":1,"state":{"lastQuestDate":"2024-03-01"}}`)))

	data, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{"lastQuestDate":"2024-03-01"}}`, string(data))

	var count int64
	db.Model(&model.CompanionSnapshot{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMachine_GormRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewGormSnapshotStore(testutil.SetupTestDB(t))
	now := at(t, "2024-03-01", 9)

	m := NewMachine(store, "Stardust", zap.NewNop())
	m.SetClock(func() time.Time { return now })
	_, _, err := m.Dispatch(ctx, "u1", SetUser{User: Profile{Name: "Ada", Sign: "virgo", TimeAvailable: 20}})
	require.NoError(t, err)
	st, _, err := m.Dispatch(ctx, "u1", DayRollover{})
	require.NoError(t, err)
	_, _, err = m.Dispatch(ctx, "u1", FeedPet{})
	require.NoError(t, err)

	fresh := NewMachine(store, "Stardust", zap.NewNop())
	fresh.SetClock(func() time.Time { return now })
	got, err := fresh.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, st.Quests, got.Quests)
	assert.Equal(t, FeedXP, got.Pet.XP)
	assert.Equal(t, date(t, "2024-03-01"), got.Pet.LastFedDate)
	require.NotNil(t, got.User)
	assert.Equal(t, "Ada", got.User.Name)
}
