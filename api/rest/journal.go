package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/planner"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// JournalHandler serves journal entries, the monthly summary and tarot draws.
type JournalHandler struct {
	planner *planner.Service
	logger  *zap.Logger
}

func NewJournalHandler(p *planner.Service, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{planner: p, logger: logger}
}

// DrawTarot handles GET /api/journal/tarot/draw.
func (h *JournalHandler) DrawTarot(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"card": h.planner.DrawTarot()})
}

// Entries handles GET /api/journal/entries. The month filter applies only
// when both month and year are given.
func (h *JournalHandler) Entries(c *gin.Context) {
	var year int
	var month time.Month
	if c.Query("month") != "" && c.Query("year") != "" {
		y, m, valid := monthParams(c, timeNow())
		if !valid {
			fail(c, http.StatusBadRequest, "invalid month or year")
			return
		}
		year, month = y, m
	}
	entries, err := h.planner.JournalEntries(c.Request.Context(), mw.GetUserID(c), year, month)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"entries": entries})
}

// Save handles POST /api/journal/entries (upsert by date).
func (h *JournalHandler) Save(c *gin.Context) {
	var req planner.JournalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	entry, err := h.planner.SaveJournalEntry(c.Request.Context(), mw.GetUserID(c), req)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"entry": entry})
}

// Summary handles GET /api/journal/summary?month=&year=. Both are required.
func (h *JournalHandler) Summary(c *gin.Context) {
	month, errM := strconv.Atoi(c.Query("month"))
	year, errY := strconv.Atoi(c.Query("year"))
	if errM != nil || errY != nil {
		fail(c, http.StatusBadRequest, "month and year are required")
		return
	}
	sum, err := h.planner.JournalSummary(c.Request.Context(), mw.GetUserID(c), year, time.Month(month))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"summary": sum})
}
