package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/planner"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// TaskHandler serves the to-do list.
type TaskHandler struct {
	planner *planner.Service
	logger  *zap.Logger
}

func NewTaskHandler(p *planner.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{planner: p, logger: logger}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.planner.Tasks(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title  string `json:"title"`
		IsTop3 bool   `json:"isTop3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	task, err := h.planner.CreateTask(c.Request.Context(), mw.GetUserID(c), req.Title, req.IsTop3)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"task": task})
}

// Toggle handles PATCH /api/tasks/:id/toggle.
func (h *TaskHandler) Toggle(c *gin.Context) {
	task, err := h.planner.ToggleTask(c.Request.Context(), mw.GetUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"task": task})
}

// Update handles PATCH /api/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	var req planner.TaskPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	task, err := h.planner.UpdateTask(c.Request.Context(), mw.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"task": task})
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.planner.DeleteTask(c.Request.Context(), mw.GetUserID(c), c.Param("id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Task deleted"})
}

// Sync handles POST /api/tasks/sync with {"tasks": [...]}.
func (h *TaskHandler) Sync(c *gin.Context) {
	var req struct {
		Tasks []planner.SyncTask `json:"tasks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Tasks == nil {
		fail(c, http.StatusBadRequest, "tasks array is required")
		return
	}
	tasks, err := h.planner.SyncTasks(c.Request.Context(), mw.GetUserID(c), req.Tasks)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"tasks": tasks})
}
