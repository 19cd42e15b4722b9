package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	"github.com/stardust-app/server/game/account"
	mw "github.com/stardust-app/server/middleware"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
)

// timeNow is the handlers' clock.
var timeNow = time.Now

// AuthHandler handles authentication REST endpoints.
type AuthHandler struct {
	accounts *account.Service
	cache    cache.Cache
	sec      config.SecurityConfig
	audit    *audit.Service
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. au may be nil.
func NewAuthHandler(accounts *account.Service, c cache.Cache, sec config.SecurityConfig, au *audit.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, cache: c, sec: sec, audit: au, logger: logger}
}

type registerRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6,max=72"`
	Name           string `json:"name" binding:"required,max=64"`
	Sign           string `json:"sign" binding:"required"`
	TimePreference int    `json:"timePreference" binding:"omitempty,min=1,max=240"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Sign           string `json:"sign"`
	TimePreference int    `json:"timePreference"`
}

func viewOf(u *model.User) gin.H {
	return gin.H{
		"user": userView{
			ID:             u.ID,
			Email:          u.Email,
			Name:           u.Name,
			Sign:           u.Sign,
			TimePreference: u.TimePreference,
		},
		"pet": u.Pet,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	u, err := h.accounts.Register(c.Request.Context(), account.Registration{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Sign:           req.Sign,
		TimePreference: req.TimePreference,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	token, issued := h.issue(c, u.ID)
	if !issued {
		return
	}
	h.audit.Log(audit.Entry{TraceID: mw.GetTraceID(c), UserID: u.ID, Action: audit.ActionRegister, IP: c.ClientIP()})

	data := viewOf(u)
	data["token"] = token
	ok(c, http.StatusCreated, data)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid credentials")
		return
	}
	u, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	token, issued := h.issue(c, u.ID)
	if !issued {
		return
	}
	h.audit.Log(audit.Entry{TraceID: mw.GetTraceID(c), UserID: u.ID, Action: audit.ActionLogin, IP: c.ClientIP()})

	data := viewOf(u)
	data["token"] = token
	ok(c, http.StatusOK, data)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.accounts.User(c.Request.Context(), mw.GetUserID(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, viewOf(u))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, mw.SessionKey(mw.GetToken(c)))
	ok(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh handles POST /api/auth/refresh. The old session is dropped.
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, mw.SessionKey(mw.GetToken(c)))

	token, issued := h.issue(c, mw.GetUserID(c))
	if !issued {
		return
	}
	ok(c, http.StatusOK, gin.H{"token": token})
}

// issue signs a token and opens its session. On failure it has already
// written the response.
func (h *AuthHandler) issue(c *gin.Context, userID string) (string, bool) {
	token, err := mw.GenerateToken(userID, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		respondErr(c, h.logger, err)
		return "", false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.cache.Set(ctx, mw.SessionKey(token), userID, h.sec.JWTTTLH); err != nil {
		respondErr(c, h.logger, err)
		return "", false
	}
	return token, true
}
