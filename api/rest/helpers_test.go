package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/api/rest"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/planner"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"github.com/stardust-app/server/scheduler"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAdminKey = "admin-secret"

type env struct {
	r     *gin.Engine
	db    *gorm.DB
	cache cache.Cache
	ps    cache.PubSub
	svc   rest.Services
	cfg   *config.Config
}

// newEnv builds the full API over an in-memory database. opts adjust the
// config before routes are mounted.
func newEnv(t *testing.T, opts ...func(*config.Config)) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	cfg := &config.Config{Security: testutil.TestSecurity()}
	cfg.Server.AdminKey = testAdminKey
	cfg.Game.LeaderboardSize = 10
	for _, opt := range opts {
		opt(cfg)
	}

	au := audit.New(db, logger, audit.WithFlushInterval(50*time.Millisecond))
	t.Cleanup(func() { au.Stop(context.Background()) })
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	svc := rest.Services{
		Accounts:  account.NewService(db, bcrypt.MinCost, "Stardust", 20, logger),
		Quests:    quest.NewService(db, c, ps, au, "Stardust", logger),
		Guidance:  guidance.NewService(db, c, 0, logger),
		Planner:   planner.NewService(db, logger),
		Companion: companion.NewMachine(companion.NewGormSnapshotStore(db), "Stardust", logger),
		Audit:     au,
		Scheduler: sched,
		Cache:     c,
	}
	scheduler.RegisterJobs(sched, svc.Guidance, svc.Quests, time.Hour, time.Now)

	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.GET("/health", rest.Health)
	rest.Mount(r.Group("/api"), svc, cfg, logger)
	return &env{r: r, db: db, cache: c, ps: ps, svc: svc, cfg: cfg}
}

// envelope is the decoded response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type response struct {
	*httptest.ResponseRecorder
	env envelope
}

// into decodes data into v.
func (r response) into(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.env.Data, v), r.Body.String())
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}, headers ...string) response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	res := response{ResponseRecorder: w}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.env), w.Body.String())
	}
	return res
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID             string `json:"id"`
		Email          string `json:"email"`
		Name           string `json:"name"`
		Sign           string `json:"sign"`
		TimePreference int    `json:"timePreference"`
	} `json:"user"`
	Pet struct {
		Name  string `json:"name"`
		Stage string `json:"stage"`
		XP    int    `json:"xp"`
	} `json:"pet"`
}

// register creates a user and returns its session.
func (e *env) register(t *testing.T, email, sign string) session {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": email, "password": "secret1", "name": "Tester", "sign": sign,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var s session
	res.into(t, &s)
	require.NotEmpty(t, s.Token)
	return s
}
