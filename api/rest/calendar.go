package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/planner"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	planner *planner.Service
	logger  *zap.Logger
}

func NewCalendarHandler(p *planner.Service, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{planner: p, logger: logger}
}

// Events handles GET /api/calendar/events?month=&year=, defaulting to the
// current month.
func (h *CalendarHandler) Events(c *gin.Context) {
	year, month, valid := monthParams(c, timeNow())
	if !valid {
		fail(c, http.StatusBadRequest, "invalid month or year")
		return
	}
	cal, err := h.planner.Calendar(c.Request.Context(), mw.GetUserID(c), year, month)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, cal)
}
