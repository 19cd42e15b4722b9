package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/planner"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// GoalHandler serves goal tracks.
type GoalHandler struct {
	planner *planner.Service
	logger  *zap.Logger
}

func NewGoalHandler(p *planner.Service, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{planner: p, logger: logger}
}

// List handles GET /api/goals.
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.planner.Goals(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"goals": goals})
}

// Create handles POST /api/goals.
func (h *GoalHandler) Create(c *gin.Context) {
	var req planner.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	goal, err := h.planner.CreateGoal(c.Request.Context(), mw.GetUserID(c), req)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"goal": goal})
}

// Get handles GET /api/goals/:id.
func (h *GoalHandler) Get(c *gin.Context) {
	goal, err := h.planner.Goal(c.Request.Context(), mw.GetUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"goal": goal})
}

// Update handles PATCH /api/goals/:id.
func (h *GoalHandler) Update(c *gin.Context) {
	var req planner.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	goal, err := h.planner.UpdateGoal(c.Request.Context(), mw.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"goal": goal})
}

// Pause handles POST /api/goals/:id/pause.
func (h *GoalHandler) Pause(c *gin.Context) { h.setPaused(c, true) }

// Resume handles POST /api/goals/:id/resume.
func (h *GoalHandler) Resume(c *gin.Context) { h.setPaused(c, false) }

func (h *GoalHandler) setPaused(c *gin.Context, paused bool) {
	goal, err := h.planner.SetGoalPaused(c.Request.Context(), mw.GetUserID(c), c.Param("id"), paused)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"goal": goal})
}

// Delete handles DELETE /api/goals/:id.
func (h *GoalHandler) Delete(c *gin.Context) {
	if err := h.planner.DeleteGoal(c.Request.Context(), mw.GetUserID(c), c.Param("id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Goal deleted"})
}
