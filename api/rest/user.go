package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// UserHandler serves the profile, the pet and activity stats.
type UserHandler struct {
	accounts *account.Service
	quests   *quest.Service
	logger   *zap.Logger
}

func NewUserHandler(accounts *account.Service, quests *quest.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, quests: quests, logger: logger}
}

// UpdateProfile handles PATCH /api/user/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req account.ProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	u, err := h.accounts.UpdateProfile(c.Request.Context(), mw.GetUserID(c), req)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, viewOf(u))
}

// Pet handles GET /api/user/pet.
func (h *UserHandler) Pet(c *gin.Context) {
	pet, err := h.quests.Pet(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"pet": pet})
}

// RenamePet handles PATCH /api/user/pet.
func (h *UserHandler) RenamePet(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&req)
	pet, err := h.quests.RenamePet(c.Request.Context(), mw.GetUserID(c), req.Name)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"pet": pet})
}

// FeedPet handles POST /api/user/pet/feed. A second feed on the same day is
// reported in the message, not as an error.
func (h *UserHandler) FeedPet(c *gin.Context) {
	out, err := h.quests.Feed(c.Request.Context(), mw.GetUserID(c), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	data := gin.H{"pet": out.Pet, "xpGained": out.XPGained, "evolved": out.Evolved}
	switch {
	case !out.Applied:
		data["message"] = "Already fed today"
	case out.Evolved:
		data["newStage"] = out.NewStage
		data["message"] = out.Pet.Name + " evolved to " + string(out.NewStage) + "!"
	default:
		data["message"] = "Pet fed successfully!"
	}
	ok(c, http.StatusOK, data)
}

// Stats handles GET /api/user/stats.
func (h *UserHandler) Stats(c *gin.Context) {
	st, err := h.quests.Stats(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"stats": st})
}
