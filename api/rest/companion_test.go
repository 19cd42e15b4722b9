package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companionOut struct {
	State struct {
		User *struct {
			Name string `json:"name"`
			Sign string `json:"sign"`
		} `json:"user"`
		Quests []struct {
			ID          string `json:"id"`
			Type        string `json:"type"`
			IsCompleted bool   `json:"isCompleted"`
		} `json:"quests"`
		Tasks []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"tasks"`
		Pet struct {
			Name       string `json:"name"`
			Stage      string `json:"stage"`
			XP         int    `json:"xp"`
			HasHatched bool   `json:"hasHatched"`
		} `json:"pet"`
	} `json:"state"`
	Result struct {
		Applied  bool   `json:"applied"`
		Reason   string `json:"reason"`
		XPGained int    `json:"xpGained"`
		Evolved  bool   `json:"evolved"`
		NewStage string `json:"newStage"`
	} `json:"result"`
}

func (e *env) companion(t *testing.T, token string, event interface{}) (int, companionOut) {
	t.Helper()
	var res response
	if event == nil {
		res = e.do(t, http.MethodGet, "/api/companion", token, nil)
	} else {
		res = e.do(t, http.MethodPost, "/api/companion/events", token, event)
	}
	var out companionOut
	if res.Code == http.StatusOK {
		res.into(t, &out)
	}
	return res.Code, out
}

func TestCompanion_Flow(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "comp@x.io", "Leo")

	code, out := e.companion(t, s.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, out.State.User)
	assert.Equal(t, "no user profile", out.Result.Reason)
	assert.Equal(t, "Egg", out.State.Pet.Stage)
	assert.Equal(t, "Stardust", out.State.Pet.Name)

	code, out = e.companion(t, s.Token, map[string]interface{}{
		"type": "set_user",
		"user": map[string]interface{}{"name": "Ada", "sign": "leo", "timeAvailable": 20, "hasOnboarded": true},
	})
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, out.State.User)
	assert.Equal(t, "Leo", out.State.User.Sign)

	code, out = e.companion(t, s.Token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out.State.Quests, 3)
	assert.True(t, out.Result.Applied)
	main := out.State.Quests[0]
	require.Equal(t, "Main", main.Type)

	code, out = e.companion(t, s.Token, map[string]string{"type": "complete_quest", "id": main.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 50, out.Result.XPGained)
	assert.True(t, out.Result.Evolved)
	assert.Equal(t, "Hatchling", out.Result.NewStage)
	assert.True(t, out.State.Pet.HasHatched)

	code, out = e.companion(t, s.Token, map[string]string{"type": "complete_quest", "id": main.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "already completed", out.Result.Reason)
	assert.Equal(t, 50, out.State.Pet.XP)

	code, out = e.companion(t, s.Token, map[string]string{"type": "feed_pet"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 60, out.State.Pet.XP)

	code, out = e.companion(t, s.Token, map[string]string{"type": "add_task", "title": "Stretch"})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out.State.Tasks, 1)
	assert.NotEmpty(t, out.State.Tasks[0].ID)
}

func TestCompanion_Rejections(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "rej@x.io", "Leo")

	code, _ := e.companion(t, s.Token, map[string]string{"type": "complete_quest", "id": "nope"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = e.companion(t, s.Token, map[string]string{"type": "dance"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.companion(t, s.Token, map[string]string{"type": "add_task", "title": " "})
	assert.Equal(t, http.StatusBadRequest, code)
	res := e.do(t, http.MethodPost, "/api/companion/events", s.Token, "{not json")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCompanion_StatePersists(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "persist@x.io", "Leo")

	code, _ := e.companion(t, s.Token, map[string]string{"type": "feed_pet"})
	require.Equal(t, http.StatusOK, code)

	e.svc.Companion.Forget(s.User.ID)
	code, out := e.companion(t, s.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 10, out.State.Pet.XP)
}

func TestCompanion_PutSnapshot(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "snap@x.io", "Leo")

	legacy := `{"pet":{"name":"Old","xp":250,"stage":"Junior"},"tasks":[],"lastQuestDate":"garbage"}`
	res := e.do(t, http.MethodPut, "/api/companion/snapshot", s.Token, legacy)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var out companionOut
	res.into(t, &out)
	assert.Equal(t, "Old", out.State.Pet.Name)
	assert.Equal(t, "Junior", out.State.Pet.Stage)
	assert.True(t, out.State.Pet.HasHatched)

	res = e.do(t, http.MethodPut, "/api/companion/snapshot", s.Token, `{"version":99,"state":{}}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	res = e.do(t, http.MethodPut, "/api/companion/snapshot", s.Token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.do(t, http.MethodPut, "/api/companion/snapshot", s.Token, `{"version":1,"state":{"pet":{"name":"Old","xp":40}}}`)
	assert.Equal(t, http.StatusConflict, res.Code, res.Body.String())

	_, out = e.companion(t, s.Token, nil)
	assert.Equal(t, 250, out.State.Pet.XP, "rejected snapshots leave the stored state alone")
}
