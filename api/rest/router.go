package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/config"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/planner"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"github.com/stardust-app/server/scheduler"
	"go.uber.org/zap"
)

// Services bundles what the REST handlers depend on.
type Services struct {
	Accounts  *account.Service
	Quests    *quest.Service
	Guidance  *guidance.Service
	Planner   *planner.Service
	Companion *companion.Machine
	Audit     *audit.Service
	Scheduler *scheduler.Scheduler
	Cache     cache.Cache
}

// Mount registers every /api route on api.
func Mount(api *gin.RouterGroup, s Services, cfg *config.Config, logger *zap.Logger) {
	auth := mw.Auth(cfg.Security, s.Cache)

	authH := NewAuthHandler(s.Accounts, s.Cache, cfg.Security, s.Audit, logger)
	userH := NewUserHandler(s.Accounts, s.Quests, logger)
	questH := NewQuestHandler(s.Accounts, s.Quests, logger)
	taskH := NewTaskHandler(s.Planner, logger)
	goalH := NewGoalHandler(s.Planner, logger)
	journalH := NewJournalHandler(s.Planner, logger)
	compatH := NewCompatibilityHandler(s.Planner, logger)
	calendarH := NewCalendarHandler(s.Planner, logger)
	guidanceH := NewGuidanceHandler(s.Accounts, s.Guidance, logger)
	companionH := NewCompanionHandler(s.Companion, s.Audit, logger)
	leaderH := NewLeaderboardHandler(s.Quests, cfg.Game.LeaderboardSize, logger)
	adminH := NewAdminHandler(s.Guidance, s.Quests, s.Scheduler, s.Audit, logger)

	authG := api.Group("/auth")
	authG.POST("/register", authH.Register)
	authG.POST("/login", authH.Login)
	authG.GET("/me", auth, authH.Me)
	authG.POST("/logout", auth, authH.Logout)
	authG.POST("/refresh", auth, authH.Refresh)

	userG := api.Group("/user", auth)
	userG.PATCH("/profile", userH.UpdateProfile)
	userG.GET("/pet", userH.Pet)
	userG.PATCH("/pet", userH.RenamePet)
	userG.POST("/pet/feed", userH.FeedPet)
	userG.GET("/stats", userH.Stats)

	questG := api.Group("/quests", auth)
	questG.POST("/generate", questH.Generate)
	questG.GET("", questH.List)
	questG.POST("/:id/complete", questH.Complete)

	taskG := api.Group("/tasks", auth)
	taskG.GET("", taskH.List)
	taskG.POST("", taskH.Create)
	taskG.POST("/sync", taskH.Sync)
	taskG.PATCH("/:id/toggle", taskH.Toggle)
	taskG.PATCH("/:id", taskH.Update)
	taskG.DELETE("/:id", taskH.Delete)

	goalG := api.Group("/goals", auth)
	goalG.GET("", goalH.List)
	goalG.POST("", goalH.Create)
	goalG.GET("/:id", goalH.Get)
	goalG.PATCH("/:id", goalH.Update)
	goalG.POST("/:id/pause", goalH.Pause)
	goalG.POST("/:id/resume", goalH.Resume)
	goalG.DELETE("/:id", goalH.Delete)

	journalG := api.Group("/journal", auth)
	journalG.GET("/tarot/draw", journalH.DrawTarot)
	journalG.GET("/entries", journalH.Entries)
	journalG.POST("/entries", journalH.Save)
	journalG.GET("/summary", journalH.Summary)

	guidanceG := api.Group("/guidance", auth)
	guidanceG.GET("", guidanceH.Guidance)
	guidanceG.GET("/horoscope", guidanceH.Horoscope)
	guidanceG.GET("/stars", guidanceH.Stars)

	compatG := api.Group("/compatibility", auth)
	compatG.POST("/calculate", compatH.Calculate)
	compatG.GET("/profiles", compatH.Profiles)
	compatG.DELETE("/profiles/:id", compatH.Delete)

	api.GET("/calendar/events", auth, calendarH.Events)

	companionG := api.Group("/companion", auth)
	companionG.GET("", companionH.State)
	companionG.POST("/events", companionH.Event)
	companionG.PUT("/snapshot", companionH.PutSnapshot)

	leaderG := api.Group("/leaderboard", auth)
	leaderG.GET("", leaderH.Top)
	leaderG.GET("/me", leaderH.Me)

	adminG := api.Group("/admin")
	adminG.Use(mw.IPWhitelist(cfg.Server.AdminIPs), AdminAuth(cfg.Server.AdminKey))
	adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	adminG.POST("/scheduler/:name/run", adminH.RunSchedulerTask)
	adminG.POST("/prewarm", adminH.Prewarm)
	adminG.POST("/leaderboard/refresh", adminH.RefreshLeaderboard)
	adminG.GET("/users/:id/xp", adminH.XPHistory)
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": timeNow().UTC()})
}
