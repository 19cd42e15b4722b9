// Package integration runs the whole API over a real HTTP listener.
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/api/rest"
	"github.com/stardust-app/server/api/sse"
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
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with every service wired together.
type TestServer struct {
	DB     *gorm.DB
	Cache  cache.Cache
	PubSub cache.PubSub
	Server *httptest.Server
	URL    string
	Cfg    *config.Config
}

// NewTestServer mirrors the wiring of the serve command over an in-memory
// database and the local cache.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c, pubsub := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	cfg := &config.Config{Security: testutil.TestSecurity()}
	cfg.Server.AdminKey = "integration-admin"
	cfg.Game.DefaultPetName = "Stardust"
	cfg.Game.DefaultTimePreference = 20
	cfg.Game.LeaderboardSize = 20

	auditSvc := audit.New(db, logger, audit.WithFlushInterval(50*time.Millisecond))
	t.Cleanup(func() { auditSvc.Stop(context.Background()) })

	accounts := account.NewService(db, bcrypt.MinCost, cfg.Game.DefaultPetName, cfg.Game.DefaultTimePreference, logger)
	quests := quest.NewService(db, c, pubsub, auditSvc, cfg.Game.DefaultPetName, logger)
	guidanceSvc := guidance.NewService(db, c, time.Hour, logger)
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)
	scheduler.RegisterJobs(sched, guidanceSvc, quests, time.Hour, time.Now)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))
	r.GET("/health", rest.Health)
	api := r.Group("/api")
	rest.Mount(api, rest.Services{
		Accounts:  accounts,
		Quests:    quests,
		Guidance:  guidanceSvc,
		Planner:   planner.NewService(db, logger),
		Companion: companion.NewMachine(companion.NewGormSnapshotStore(db), cfg.Game.DefaultPetName, logger),
		Audit:     auditSvc,
		Scheduler: sched,
		Cache:     c,
	}, cfg, logger)
	api.GET("/companion/stream", mw.Auth(cfg.Security, c), sse.NewHandler(pubsub, cfg.Security, logger).ServeSSE)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &TestServer{DB: db, Cache: c, PubSub: pubsub, Server: srv, URL: srv.URL, Cfg: cfg}
}

// Envelope is the decoded response body.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client is one logged-in user of the TestServer.
type Client struct {
	t      *testing.T
	srv    *TestServer
	Token  string
	UserID string
}

// Call sends a JSON request and decodes the envelope.
func (ts *TestServer) Call(t *testing.T, method, path, token string, body interface{}) (int, Envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// Register creates an account and returns a client holding its token.
func (ts *TestServer) Register(t *testing.T, email, sign string) *Client {
	t.Helper()
	code, env := ts.Call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "name": "Player", "sign": sign,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return &Client{t: t, srv: ts, Token: out.Token, UserID: out.User.ID}
}

// Do calls the API as the client and decodes data into out when non-nil.
func (cl *Client) Do(method, path string, body, out interface{}) int {
	cl.t.Helper()
	code, env := cl.srv.Call(cl.t, method, path, cl.Token, body)
	if out != nil && env.Success {
		require.NoError(cl.t, json.Unmarshal(env.Data, out))
	}
	return code
}

// Stream is an open companion event stream.
type Stream struct {
	sc     *bufio.Scanner
	cancel context.CancelFunc
}

// OpenStream connects to the SSE endpoint and waits for the connected event.
func (cl *Client) OpenStream() *Stream {
	cl.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.srv.URL+"/api/companion/stream?token="+cl.Token, nil)
	require.NoError(cl.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(cl.t, err)
	require.Equal(cl.t, http.StatusOK, resp.StatusCode)
	cl.t.Cleanup(func() {
		cancel()
		resp.Body.Close()
	})
	s := &Stream{sc: bufio.NewScanner(resp.Body), cancel: cancel}
	name, _ := s.Next(cl.t)
	require.Equal(cl.t, "connected", name)
	return s
}

// Next returns the next event name and data.
func (s *Stream) Next(t *testing.T) (string, string) {
	t.Helper()
	var name string
	for s.sc.Scan() {
		line := s.sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && name != "":
			return name, strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended: %v", s.sc.Err())
	return "", ""
}
