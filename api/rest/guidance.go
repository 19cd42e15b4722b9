package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/guidance"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// defaultStars is the star field size when ?count is absent.
const defaultStars = 100

// GuidanceHandler serves the daily guidance, horoscope and star field for
// the user's sign.
type GuidanceHandler struct {
	accounts *account.Service
	guidance *guidance.Service
	logger   *zap.Logger
}

func NewGuidanceHandler(accounts *account.Service, g *guidance.Service, logger *zap.Logger) *GuidanceHandler {
	return &GuidanceHandler{accounts: accounts, guidance: g, logger: logger}
}

// userSign falls back to NotSure when the user is gone.
func (h *GuidanceHandler) userSign(c *gin.Context) (content.Sign, error) {
	u, err := h.accounts.User(c.Request.Context(), mw.GetUserID(c))
	if errors.Is(err, account.ErrNotFound) {
		return content.NotSure, nil
	}
	if err != nil {
		return "", err
	}
	return content.ParseSign(u.Sign), nil
}

// Guidance handles GET /api/guidance?date=.
func (h *GuidanceHandler) Guidance(c *gin.Context) {
	d, err := dateParam(c.Query("date"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	sign, err := h.userSign(c)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	g, err := h.guidance.Guidance(c.Request.Context(), sign, d)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"guidance": g})
}

// Horoscope handles GET /api/guidance/horoscope?date=.
func (h *GuidanceHandler) Horoscope(c *gin.Context) {
	d, err := dateParam(c.Query("date"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	sign, err := h.userSign(c)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	hs, err := h.guidance.Horoscope(c.Request.Context(), sign, d)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"horoscope": hs})
}

// Stars handles GET /api/guidance/stars?date=&count=.
func (h *GuidanceHandler) Stars(c *gin.Context) {
	d, err := dateParam(c.Query("date"), timeNow())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	n := defaultStars
	if v := c.Query("count"); v != "" {
		if n, err = strconv.Atoi(v); err != nil {
			fail(c, http.StatusBadRequest, "count must be a number")
			return
		}
	}
	ok(c, http.StatusOK, gin.H{"date": d, "stars": content.StarField(d, n)})
}
