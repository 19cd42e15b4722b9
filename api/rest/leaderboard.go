package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// LeaderboardHandler handles leaderboard REST endpoints.
type LeaderboardHandler struct {
	quests *quest.Service
	size   int
	logger *zap.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler serving size entries by
// default.
func NewLeaderboardHandler(quests *quest.Service, size int, logger *zap.Logger) *LeaderboardHandler {
	if size <= 0 {
		size = 20
	}
	return &LeaderboardHandler{quests: quests, size: size, logger: logger}
}

// Top returns the pets with the most XP.
// GET /api/leaderboard?limit=20
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit := h.size
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= quest.MaxLeaderboard {
		limit = l
	}
	entries, err := h.quests.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// Me returns the caller's position.
// GET /api/leaderboard/me
func (h *LeaderboardHandler) Me(c *gin.Context) {
	pos, xp, err := h.quests.Rank(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"rank": pos, "xp": xp})
}
