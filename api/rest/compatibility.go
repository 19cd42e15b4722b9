package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/planner"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// CompatibilityHandler serves sign compatibility readings.
type CompatibilityHandler struct {
	planner *planner.Service
	logger  *zap.Logger
}

func NewCompatibilityHandler(p *planner.Service, logger *zap.Logger) *CompatibilityHandler {
	return &CompatibilityHandler{planner: p, logger: logger}
}

// Calculate handles POST /api/compatibility/calculate.
func (h *CompatibilityHandler) Calculate(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Sign string `json:"sign"`
	}
	_ = c.ShouldBindJSON(&req)
	profile, err := h.planner.CalculateCompatibility(c.Request.Context(), mw.GetUserID(c), req.Name, req.Sign)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"profile": profile})
}

// Profiles handles GET /api/compatibility/profiles.
func (h *CompatibilityHandler) Profiles(c *gin.Context) {
	profiles, err := h.planner.CompatibilityProfiles(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"profiles": profiles})
}

// Delete handles DELETE /api/compatibility/profiles/:id.
func (h *CompatibilityHandler) Delete(c *gin.Context) {
	if err := h.planner.DeleteCompatibilityProfile(c.Request.Context(), mw.GetUserID(c), c.Param("id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Profile deleted"})
}
