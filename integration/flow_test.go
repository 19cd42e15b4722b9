package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questView struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	XP   int    `json:"xp"`
}

func TestAuthFlow(t *testing.T) {
	ts := NewTestServer(t)
	cl := ts.Register(t, "flow@stardust.app", "Cancer")

	var me struct {
		User struct {
			Sign string `json:"sign"`
		} `json:"user"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, "Cancer", me.User.Sign)

	var login struct {
		Token string `json:"token"`
	}
	code, env := ts.Call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "FLOW@stardust.app", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)

	require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, cl.Do(http.MethodGet, "/api/auth/me", nil, nil))
}

// A full day: generate quests, complete them all, feed the pet and watch
// the events arrive on the stream.
func TestDailyLoop(t *testing.T) {
	ts := NewTestServer(t)
	cl := ts.Register(t, "loop@stardust.app", "Leo")
	stream := cl.OpenStream()

	var gen struct {
		Quests []questView `json:"quests"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/quests/generate", nil, &gen))
	require.Len(t, gen.Quests, 3)

	total := 0
	for _, q := range gen.Quests {
		require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/quests/"+q.ID+"/complete", nil, nil))
		total += q.XP
	}
	assert.Equal(t, 80, total)

	name, data := stream.Next(t)
	assert.Equal(t, "quest_completed", name)
	assert.Contains(t, data, gen.Quests[0].ID)
	name, data = stream.Next(t)
	assert.Equal(t, "evolved", name)
	assert.Contains(t, data, "Hatchling")
	for range gen.Quests[1:] {
		name, _ = stream.Next(t)
		assert.Equal(t, "quest_completed", name)
	}

	var fed struct {
		XPGained int `json:"xpGained"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/user/pet/feed", nil, &fed))
	assert.Equal(t, 10, fed.XPGained)
	name, _ = stream.Next(t)
	assert.Equal(t, "pet_fed", name)

	var stats struct {
		Stats struct {
			CompletedQuests     int64  `json:"completedQuests"`
			QuestCompletionRate int    `json:"questCompletionRate"`
			PetXP               int    `json:"petXp"`
			PetStage            string `json:"petStage"`
			Streak              int    `json:"streak"`
		} `json:"stats"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodGet, "/api/user/stats", nil, &stats))
	assert.EqualValues(t, 3, stats.Stats.CompletedQuests)
	assert.Equal(t, 100, stats.Stats.QuestCompletionRate)
	assert.Equal(t, 90, stats.Stats.PetXP)
	assert.Equal(t, "Hatchling", stats.Stats.PetStage)
	assert.Equal(t, 1, stats.Stats.Streak)

	var rank struct {
		Rank int `json:"rank"`
		XP   int `json:"xp"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodGet, "/api/leaderboard/me", nil, &rank))
	assert.Equal(t, 1, rank.Rank)
	assert.Equal(t, 90, rank.XP)
}

// Concurrent completions of one quest award its XP exactly once.
func TestConcurrentCompletion(t *testing.T) {
	ts := NewTestServer(t)
	cl := ts.Register(t, "race@stardust.app", "Leo")

	var gen struct {
		Quests []questView `json:"quests"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/quests/generate", nil, &gen))
	side := gen.Quests[1]

	type outcome struct {
		Applied  bool `json:"applied"`
		XPGained int  `json:"xpGained"`
	}
	results := make(chan outcome, 8)
	for range 8 {
		go func() {
			code, env := ts.Call(t, http.MethodPost, "/api/quests/"+side.ID+"/complete", cl.Token, nil)
			var o outcome
			if code == http.StatusOK {
				_ = json.Unmarshal(env.Data, &o)
			}
			results <- o
		}()
	}
	applied, xp := 0, 0
	for range 8 {
		o := <-results
		if o.Applied {
			applied++
		}
		xp += o.XPGained
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, side.XP, xp)

	var pet struct {
		Pet struct {
			XP    int    `json:"xp"`
			Stage string `json:"stage"`
		} `json:"pet"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodGet, "/api/user/pet", nil, &pet))
	assert.Equal(t, side.XP, pet.Pet.XP)
	assert.Equal(t, "Egg", pet.Pet.Stage, "side quests never hatch")
}

// The companion aggregate survives a snapshot round trip through the API.
func TestCompanionSnapshotRoundTrip(t *testing.T) {
	ts := NewTestServer(t)
	cl := ts.Register(t, "snap@stardust.app", "Leo")

	events := []map[string]interface{}{
		{"type": "set_user", "user": map[string]interface{}{"name": "Kit", "sign": "virgo", "timeAvailable": 10, "hasOnboarded": true}},
		{"type": "generate_daily_quests"},
		{"type": "add_task", "id": "t1", "title": "Tea"},
		{"type": "set_task_top3", "id": "t1", "isTop3": true},
	}
	for _, ev := range events {
		require.Equal(t, http.StatusOK, cl.Do(http.MethodPost, "/api/companion/events", ev, nil), ev["type"])
	}

	var got struct {
		State json.RawMessage `json:"state"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodGet, "/api/companion", nil, &got))

	snapshot := map[string]interface{}{"version": 1, "state": got.State}
	var put struct {
		State json.RawMessage `json:"state"`
	}
	require.Equal(t, http.StatusOK, cl.Do(http.MethodPut, "/api/companion/snapshot", snapshot, &put))
	assert.JSONEq(t, string(got.State), string(put.State))
}
