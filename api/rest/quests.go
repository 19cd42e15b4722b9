package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// QuestHandler serves the daily quests.
type QuestHandler struct {
	accounts *account.Service
	quests   *quest.Service
	logger   *zap.Logger
}

func NewQuestHandler(accounts *account.Service, quests *quest.Service, logger *zap.Logger) *QuestHandler {
	return &QuestHandler{accounts: accounts, quests: quests, logger: logger}
}

type generateRequest struct {
	Date          string `json:"date"`
	TimeAvailable int    `json:"timeAvailable" binding:"omitempty,min=0,max=240"`
	Force         bool   `json:"force"`
}

// Generate handles POST /api/quests/generate. Without timeAvailable the
// user's saved time preference is used.
func (h *QuestHandler) Generate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid body")
			return
		}
	}
	now := timeNow()
	d, err := dateParam(req.Date, now)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()
	userID := mw.GetUserID(c)
	minutes := req.TimeAvailable
	if minutes == 0 {
		u, err := h.accounts.User(ctx, userID)
		if err != nil {
			respondErr(c, h.logger, err)
			return
		}
		minutes = u.TimePreference
	}

	quests, err := h.quests.Generate(ctx, userID, d, minutes, req.Force)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"quests": quests, "generatedAt": now.UTC()})
}

// List handles GET /api/quests?date=YYYY-MM-DD.
func (h *QuestHandler) List(c *gin.Context) {
	d, err := dateParam(c.Query("date"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	quests, err := h.quests.List(c.Request.Context(), mw.GetUserID(c), d)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"quests": quests})
}

// Complete handles POST /api/quests/:id/complete. Completion is one-way;
// repeating it reports the reason and awards nothing.
func (h *QuestHandler) Complete(c *gin.Context) {
	out, err := h.quests.Complete(c.Request.Context(), mw.GetUserID(c), c.Param("id"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, out)
}
