package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
)

const (
	UserIDKey = "user_id"
	TokenKey  = "auth_token"
)

// SessionKey is the cache key that keeps a token's session alive.
func SessionKey(token string) string { return "session:" + token }

// Auth admits a request whose JWT verifies and whose session entry still
// names the token's user. Logout and refresh delete the entry, which is what
// revokes a token before it expires. EventSource clients cannot set headers,
// so a token query parameter is accepted as well.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			abort(ctx, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			abort(ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		owner, err := c.Get(cacheCtx, SessionKey(tokenStr))
		switch {
		case cache.IsNotFound(err), err == nil && owner != claims.UserID:
			abort(ctx, http.StatusUnauthorized, "session expired")
			return
		case err != nil:
			abort(ctx, http.StatusServiceUnavailable, "session store unavailable")
			return
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Set(TokenKey, tokenStr)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return ctx.Query("token")
}

// GetUserID retrieves the authenticated user ID from the Gin context.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetToken returns the raw token the request authenticated with.
func GetToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
