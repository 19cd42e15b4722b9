package rest_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/config"
	"github.com/stardust-app/server/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) admin(t *testing.T, method, path string) response {
	t.Helper()
	return e.do(t, method, "/api/admin"+path, "", nil, "X-Admin-Key", testAdminKey)
}

func TestAdminAuth(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/admin/scheduler", "", nil).Code)
	res := e.do(t, http.MethodGet, "/api/admin/scheduler", "", nil, "X-Admin-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, res.env.Success)

	disabled := newEnv(t, func(cfg *config.Config) { cfg.Server.AdminKey = "" })
	res = disabled.do(t, http.MethodGet, "/api/admin/scheduler", "", nil, "X-Admin-Key", testAdminKey)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}

func TestAdmin_IPWhitelist(t *testing.T) {
	e := newEnv(t, func(cfg *config.Config) { cfg.Server.AdminIPs = []string{"10.1.0.0/16"} })
	res := e.admin(t, http.MethodGet, "/scheduler")
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestAdmin_Scheduler(t *testing.T) {
	e := newEnv(t)

	res := e.admin(t, http.MethodGet, "/scheduler")
	require.Equal(t, http.StatusOK, res.Code)
	var list struct {
		Tasks  []string               `json:"tasks"`
		Status []scheduler.TaskStatus `json:"status"`
	}
	res.into(t, &list)
	assert.Equal(t, []string{scheduler.TaskContentPrewarm, scheduler.TaskLeaderboardRebuild}, list.Tasks)
	require.Len(t, list.Status, 2)
	assert.Zero(t, list.Status[1].Runs)

	res = e.admin(t, http.MethodPost, "/scheduler/"+scheduler.TaskLeaderboardRebuild+"/run")
	assert.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = e.admin(t, http.MethodGet, "/scheduler")
	res.into(t, &list)
	assert.Equal(t, scheduler.TaskLeaderboardRebuild, list.Status[1].Name)
	assert.Equal(t, 1, list.Status[1].Runs)
	res = e.admin(t, http.MethodPost, "/scheduler/session_gc/run")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestAdmin_Prewarm(t *testing.T) {
	e := newEnv(t)
	res := e.admin(t, http.MethodPost, "/prewarm?date=2024-03-02")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var out struct {
		Date     string `json:"date"`
		Payloads int    `json:"payloads"`
	}
	res.into(t, &out)
	assert.Equal(t, "2024-03-02", out.Date)
	assert.Equal(t, 26, out.Payloads)

	assert.Equal(t, http.StatusBadRequest, e.admin(t, http.MethodPost, "/prewarm?date=2024-02-31").Code)
}

func TestAdmin_LeaderboardRefresh(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "admin-lb@x.io", "Leo")
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/user/pet/feed", s.Token, nil).Code)

	res := e.admin(t, http.MethodPost, "/leaderboard/refresh")
	require.Equal(t, http.StatusOK, res.Code)
	var out struct {
		Refreshed int `json:"refreshed"`
	}
	res.into(t, &out)
	assert.Equal(t, 1, out.Refreshed)
}

func TestAdmin_XPHistory(t *testing.T) {
	e := newEnv(t)
	s := e.register(t, "ledger@x.io", "Leo")
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/user/pet/feed", s.Token, nil).Code)

	type entry struct {
		Action  string `json:"action"`
		XPDelta int    `json:"xpDelta"`
	}
	var history []entry
	var totals []audit.ActionTotal
	require.Eventually(t, func() bool {
		res := e.admin(t, http.MethodGet, "/users/"+s.User.ID+"/xp")
		if res.Code != http.StatusOK {
			return false
		}
		var out struct {
			History []entry             `json:"history"`
			Totals  []audit.ActionTotal `json:"totals"`
		}
		res.into(t, &out)
		history, totals = out.History, out.Totals
		return len(history) > 0
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, "pet_feed", history[0].Action)
	assert.Equal(t, 10, history[0].XPDelta)
	assert.Contains(t, totals, audit.ActionTotal{Action: audit.ActionPetFeed, Entries: 1, XP: 10})
}
