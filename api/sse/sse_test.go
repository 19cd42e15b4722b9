package sse_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/api/sse"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"github.com/stardust-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStreamServer(t *testing.T, origins []string) (*httptest.Server, string, func(string)) {
	t.Helper()
	c, ps := testutil.SetupTestCache(t)
	sec := testutil.TestSecurity()
	sec.AllowedOrigins = origins

	token, err := mw.GenerateToken("u1", sec.JWTSecret, sec.JWTTTLH)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), mw.SessionKey(token), "u1", time.Hour))

	r := gin.New()
	h := sse.NewHandler(ps, sec, zap.NewNop())
	r.GET("/api/companion/stream", mw.Auth(sec, c), h.ServeSSE)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	publish := func(payload string) {
		require.NoError(t, ps.Publish(context.Background(), quest.Channel("u1"), payload))
	}
	return srv, token, publish
}

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, sc *bufio.Scanner) (string, string) {
	t.Helper()
	var name string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && name != "":
			return name, strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return "", ""
}

func TestStream_DeliversCompanionEvents(t *testing.T) {
	srv, token, publish := newStreamServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/companion/stream?token="+token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	name, data := readEvent(t, sc)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, `"u1"`)

	publish(`{"type":"evolved","userId":"u1","stage":"Junior"}`)
	name, data = readEvent(t, sc)
	assert.Equal(t, "evolved", name)
	assert.JSONEq(t, `{"type":"evolved","userId":"u1","stage":"Junior"}`, data)

	publish(`not json`)
	name, _ = readEvent(t, sc)
	assert.Equal(t, "message", name)
}

func TestStream_RequiresToken(t *testing.T) {
	srv, _, _ := newStreamServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/companion/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStream_RejectsUnknownOrigin(t *testing.T) {
	srv, token, _ := newStreamServer(t, []string{"https://app.example"})
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/companion/stream?token="+token, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
