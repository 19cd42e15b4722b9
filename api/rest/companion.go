package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/game/companion"
	mw "github.com/stardust-app/server/middleware"
	"go.uber.org/zap"
)

// maxSnapshotBytes bounds event and snapshot bodies.
const maxSnapshotBytes = 1 << 20

// CompanionHandler exposes the client aggregate held by a companion.Machine.
type CompanionHandler struct {
	machine *companion.Machine
	audit   *audit.Service
	logger  *zap.Logger
}

func NewCompanionHandler(m *companion.Machine, au *audit.Service, logger *zap.Logger) *CompanionHandler {
	return &CompanionHandler{machine: m, audit: au, logger: logger}
}

// State handles GET /api/companion. A stale quest set is rolled over to
// today before the state is returned.
func (h *CompanionHandler) State(c *gin.Context) {
	st, res, err := h.machine.Dispatch(c.Request.Context(), mw.GetUserID(c), companion.DayRollover{})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"state": st, "result": res})
}

// Event handles POST /api/companion/events with one event in wire form,
// e.g. {"type":"complete_quest","id":"main-2024-03-01"}.
func (h *CompanionHandler) Event(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	ev, err := companion.DecodeEvent(body)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	userID := mw.GetUserID(c)
	st, res, err := h.machine.Dispatch(c.Request.Context(), userID, ev)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	if res.XPGained > 0 {
		action := audit.ActionQuestComplete
		if _, fed := ev.(companion.FeedPet); fed {
			action = audit.ActionPetFeed
		}
		h.audit.Log(audit.Entry{
			TraceID: mw.GetTraceID(c),
			UserID:  userID,
			Action:  action,
			XPDelta: res.XPGained,
			Detail:  map[string]string{"source": "companion", "event": ev.Name()},
		})
	}
	if res.Evolved {
		h.audit.Log(audit.Entry{UserID: userID, Action: audit.ActionPetEvolve, Detail: map[string]string{"stage": string(res.NewStage)}})
	}
	ok(c, http.StatusOK, gin.H{"state": st, "result": res})
}

// PutSnapshot handles PUT /api/companion/snapshot. Older snapshot versions
// are migrated; newer ones are rejected.
func (h *CompanionHandler) PutSnapshot(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil || len(body) == 0 {
		fail(c, http.StatusBadRequest, "snapshot body is required")
		return
	}
	userID := mw.GetUserID(c)
	st, err := h.machine.Replace(c.Request.Context(), userID, body)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	h.audit.Log(audit.Entry{TraceID: mw.GetTraceID(c), UserID: userID, Action: audit.ActionSnapshotPut, IP: c.ClientIP()})
	ok(c, http.StatusOK, gin.H{"state": st})
}
