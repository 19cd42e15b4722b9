package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stardust-app/server/api/rest"
	"github.com/stardust-app/server/api/sse"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/cache"
	dbadapter "github.com/stardust-app/server/db"
	"github.com/stardust-app/server/game/account"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/planner"
	"github.com/stardust-app/server/game/quest"
	mw "github.com/stardust-app/server/middleware"
	"github.com/stardust-app/server/model"
	"github.com/stardust-app/server/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Server.Debug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := auditSvc.Stop(stopCtx); err != nil {
			logger.Warn("audit ledger not fully flushed", zap.Error(err))
		}
	}()

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer c.Close()
	pubsub, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Services ----
	accounts := account.NewService(db, cfg.Security.BcryptCost, cfg.Game.DefaultPetName, cfg.Game.DefaultTimePreference, logger)
	quests := quest.NewService(db, c, pubsub, auditSvc, cfg.Game.DefaultPetName, logger)
	guidanceSvc := guidance.NewService(db, c, cfg.Game.ContentCacheTTL, logger)
	plannerSvc := planner.NewService(db, logger)
	machine := companion.NewMachine(companion.NewGormSnapshotStore(db), cfg.Game.DefaultPetName, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	scheduler.RegisterJobs(sched, guidanceSvc, quests, cfg.Game.PrewarmInterval, time.Now)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))
	r.GET("/health", rest.Health)

	api := r.Group("/api")
	rest.Mount(api, rest.Services{
		Accounts:  accounts,
		Quests:    quests,
		Guidance:  guidanceSvc,
		Planner:   plannerSvc,
		Companion: machine,
		Audit:     auditSvc,
		Scheduler: sched,
		Cache:     c,
	}, cfg, logger)

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, cfg.Security, logger)
	api.GET("/companion/stream", mw.Auth(cfg.Security, c), sseH.ServeSSE)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
