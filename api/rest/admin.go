package rest

import (
	"net/http"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/quest"
	"github.com/stardust-app/server/scheduler"
	"go.uber.org/zap"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	guidance *guidance.Service
	quests   *quest.Service
	sched    *scheduler.Scheduler
	audit    *audit.Service
	logger   *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	g *guidance.Service,
	quests *quest.Service,
	sched *scheduler.Scheduler,
	au *audit.Service,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{guidance: g, quests: quests, sched: sched, audit: au, logger: logger}
}

// ListSchedulerTasks returns the registered task names and their run status.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"tasks": h.sched.ListTickers(), "status": h.sched.Status()})
}

// RunSchedulerTask runs a task now.
// POST /api/admin/scheduler/:name/run
func (h *AdminHandler) RunSchedulerTask(c *gin.Context) {
	name := c.Param("name")
	err := h.sched.Trigger(name)
	switch {
	case errors.Is(err, scheduler.ErrUnknownTask):
		fail(c, http.StatusNotFound, "no such task")
	case errors.Is(err, scheduler.ErrTaskBusy):
		fail(c, http.StatusConflict, "task already running")
	case err != nil:
		respondErr(c, h.logger, err)
	default:
		ok(c, http.StatusOK, gin.H{"task": name})
	}
}

// Prewarm fills the content cache of every sign for a date.
// POST /api/admin/prewarm?date=YYYY-MM-DD
func (h *AdminHandler) Prewarm(c *gin.Context) {
	d, err := dateParam(c.Query("date"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	n, err := h.guidance.Prewarm(c.Request.Context(), d)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	h.logger.Info("admin prewarmed content", zap.String("date", d.String()), zap.Int("payloads", n))
	ok(c, http.StatusOK, gin.H{"date": d, "payloads": n})
}

// RefreshLeaderboard rebuilds the leaderboard sorted set from the DB.
// POST /api/admin/leaderboard/refresh
func (h *AdminHandler) RefreshLeaderboard(c *gin.Context) {
	n, err := h.quests.RebuildLeaderboard(c.Request.Context())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"refreshed": n})
}

// XPHistory returns a user's XP ledger, newest first, with per-action totals.
// GET /api/admin/users/:id/xp?limit=50
func (h *AdminHandler) XPHistory(c *gin.Context) {
	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	ctx := c.Request.Context()
	rows, err := h.audit.XPHistory(ctx, c.Param("id"), limit)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	totals, err := h.audit.XPTotals(ctx, c.Param("id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"history": rows, "totals": totals})
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// If adminKey is empty all admin endpoints are disabled (503). Set a
// non-empty server.admin_key in config to enable admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			fail(c, http.StatusServiceUnavailable, "admin endpoints disabled: set server.admin_key in config")
			return
		}
		if c.GetHeader("X-Admin-Key") != adminKey {
			fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}
