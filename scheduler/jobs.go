package scheduler

import (
	"context"
	"time"

	"github.com/stardust-app/server/game/guidance"
	"github.com/stardust-app/server/game/quest"
	"github.com/stardust-app/server/game/seed"
	"go.uber.org/zap"
)

// Names of the built-in tasks.
const (
	TaskContentPrewarm     = "content_prewarm"
	TaskLeaderboardRebuild = "leaderboard_rebuild"
)

// RegisterJobs adds the server's periodic tasks: prewarming today's and
// tomorrow's content for every sign, and rebuilding the leaderboard.
func RegisterJobs(s *Scheduler, g *guidance.Service, q *quest.Service, interval time.Duration, now func() time.Time) {
	if interval <= 0 {
		interval = time.Hour
	}
	s.AddTicker(TaskContentPrewarm, interval, func(ctx context.Context) error {
		today := seed.Today(now())
		total := 0
		for _, d := range []seed.Date{today, today.AddDays(1)} {
			n, err := g.Prewarm(ctx, d)
			if err != nil {
				return err
			}
			total += n
		}
		s.logger.Info("content prewarmed", zap.String("date", today.String()), zap.Int("payloads", total))
		return nil
	})
	s.AddTicker(TaskLeaderboardRebuild, interval, func(ctx context.Context) error {
		_, err := q.RebuildLeaderboard(ctx)
		return err
	})
}
