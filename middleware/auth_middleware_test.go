package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "stardust-test-secret"

var testSec = config.SecurityConfig{JWTSecret: testSecret, JWTTTLH: time.Hour}

func setupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(config.CacheConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// login issues a token for userID and opens its session the way the auth
// handlers do.
func login(t *testing.T, c cache.Cache, userID string) string {
	t.Helper()
	token, err := GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), SessionKey(token), userID, time.Hour))
	return token
}

type authProbe struct {
	userID, token string
}

func newProtectedRouter(c cache.Cache, probe *authProbe) *gin.Engine {
	r := gin.New()
	r.Use(Auth(testSec, c))
	r.GET("/api/user/profile", func(ctx *gin.Context) {
		if probe != nil {
			probe.userID, probe.token = GetUserID(ctx), GetToken(ctx)
		}
		ctx.Status(http.StatusOK)
	})
	return r
}

func TestAuth_Rejections(t *testing.T) {
	c := setupTestCache(t)
	r := newProtectedRouter(c, nil)

	noSession, err := GenerateToken("user-1", testSecret, time.Hour)
	require.NoError(t, err)
	otherSecret, err := GenerateToken("user-1", "not-our-secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("user-1", testSecret, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), SessionKey(expired), "user-1", time.Hour))
	hijacked, err := GenerateToken("user-1", testSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), SessionKey(hijacked), "user-2", time.Hour))

	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"no credentials", "", "", "missing token"},
		{"wrong scheme", "Token " + noSession, "", "missing token"},
		{"garbage", "Bearer not.a.jwt", "", "invalid token"},
		{"foreign signature", "Bearer " + otherSecret, "", "invalid token"},
		{"expired jwt", "Bearer " + expired, "", "invalid token"},
		{"logged out", "Bearer " + noSession, "", "session expired"},
		{"session of another user", "Bearer " + hijacked, "", "session expired"},
		{"query without session", "", noSession, "session expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/api/user/profile"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"error":"`+tt.want+`"}`, w.Body.String())
		})
	}
}

func TestAuth_BearerAdmits(t *testing.T) {
	c := setupTestCache(t)
	var probe authProbe
	r := newProtectedRouter(c, &probe)
	token := login(t, c, "user-42")

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", probe.userID)
	assert.Equal(t, token, probe.token)
}

func TestAuth_QueryTokenForEventSource(t *testing.T) {
	c := setupTestCache(t)
	var probe authProbe
	r := newProtectedRouter(c, &probe)
	token := login(t, c, "user-7")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/profile?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", probe.userID)
}

func TestAuth_LogoutRevokes(t *testing.T) {
	c := setupTestCache(t)
	r := newProtectedRouter(c, nil)
	token := login(t, c, "user-5")

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, call())
	require.NoError(t, c.Del(context.Background(), SessionKey(token)))
	assert.Equal(t, http.StatusUnauthorized, call())
}

type brokenCache struct{ cache.Cache }

func (brokenCache) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestAuth_SessionStoreDown(t *testing.T) {
	c := setupTestCache(t)
	token := login(t, c, "user-9")
	r := newProtectedRouter(brokenCache{c}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetUserID(c))
	c.Set(UserIDKey, "user-99")
	assert.Equal(t, "user-99", GetUserID(c))
}
