package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/planner"
	"github.com/stardust-app/server/game/quest"
	"github.com/stardust-app/server/game/seed"
	"go.uber.org/zap"
)

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, quest.ErrNotFound),
		errors.Is(err, planner.ErrNotFound),
		errors.Is(err, account.ErrNotFound),
		errors.Is(err, companion.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quest.ErrValidation),
		errors.Is(err, planner.ErrValidation),
		errors.Is(err, account.ErrValidation),
		errors.Is(err, companion.ErrValidation),
		errors.Is(err, companion.ErrSnapshotVersion),
		errors.Is(err, seed.ErrInvalidDate),
		errors.Is(err, account.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, companion.ErrSnapshotStale):
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondErr writes err in the error envelope. Internal errors are logged and
// hidden from the client.
func respondErr(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		fail(c, status, "internal error")
		return
	}
	fail(c, status, err.Error())
}

// dateParam reads an optional YYYY-MM-DD value, defaulting to today (UTC).
func dateParam(raw string, now time.Time) (seed.Date, error) {
	if raw == "" {
		return seed.Today(now), nil
	}
	return seed.ParseDate(raw)
}

// monthParams reads ?month=&year=, defaulting each to the current UTC month.
func monthParams(c *gin.Context, now time.Time) (int, time.Month, bool) {
	now = now.UTC()
	year, month := now.Year(), now.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}
