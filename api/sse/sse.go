package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// keepAlive is the interval of comment lines that hold proxies open.
var keepAlive = 30 * time.Second

// Handler streams a user's companion events.
type Handler struct {
	pubsub cache.PubSub
	sec    config.SecurityConfig
	logger *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(pubsub cache.PubSub, sec config.SecurityConfig, logger *zap.Logger) *Handler {
	return &Handler{pubsub: pubsub, sec: sec, logger: logger}
}

// ServeSSE handles GET /api/companion/stream?token=<jwt>. It must run behind
// middleware.Auth. Each pubsub message becomes one event named after its
// "type" field (quest_completed, pet_fed, evolved).
func (h *Handler) ServeSSE(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if origin != "" && len(h.sec.AllowedOrigins) > 0 {
		if !slices.Contains(h.sec.AllowedOrigins, origin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "origin not allowed"})
			return
		}
		c.Header("Access-Control-Allow-Origin", origin)
	}

	userID := mw.GetUserID(c)
	ctx := c.Request.Context()
	msgCh, unsub, err := h.pubsub.Subscribe(ctx, quest.Channel(userID))
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.String("user_id", userID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"userId\":%q}\n\n", userID)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", eventName(msg.Payload), msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-ctx.Done():
			return
		}
	}
}

// eventName reads the type field of a payload, defaulting to "message".
func eventName(payload string) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &head); err != nil || head.Type == "" {
		return "message"
	}
	return head.Type
}
