package quest

import (
	"context"
	"fmt"

	"github.com/stardust-app/server/cache"
	"go.uber.org/zap"
)

// MaxLeaderboard caps leaderboard reads and rebuilds.
const MaxLeaderboard = 100

// LeaderboardEntry is one ranked pet.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	PetName  string `json:"petName"`
	Stage    string `json:"stage"`
	XP       int    `json:"xp"`
}

type leaderRow struct {
	UserID   string
	UserName string
	PetName  string
	Stage    string
	XP       int
}

func (svc *Service) leaderRows(ctx context.Context, userIDs []string, limit int) ([]leaderRow, error) {
	q := svc.db.WithContext(ctx).Table("pets").
		Select("pets.user_id AS user_id, users.name AS user_name, pets.name AS pet_name, pets.stage AS stage, pets.xp AS xp").
		Joins("LEFT JOIN users ON users.id = pets.user_id")
	if userIDs != nil {
		q = q.Where("pets.user_id IN ?", userIDs)
	} else {
		q = q.Order("pets.xp DESC, pets.user_id ASC").Limit(limit)
	}
	var rows []leaderRow
	err := q.Scan(&rows).Error
	return rows, err
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLeaderboard {
		return MaxLeaderboard
	}
	return limit
}

// Leaderboard returns the top pets by XP. The sorted set is the fast path;
// an empty set is rebuilt from the pets table first.
func (svc *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = clampLimit(limit)
	if svc.cache == nil {
		rows, err := svc.leaderRows(ctx, nil, limit)
		if err != nil {
			return nil, err
		}
		return rank(rows, nil), nil
	}

	members, err := svc.cache.ZRevRange(ctx, LeaderboardKey, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		if _, err := svc.RebuildLeaderboard(ctx); err != nil {
			return nil, err
		}
		if members, err = svc.cache.ZRevRange(ctx, LeaderboardKey, 0, int64(limit-1)); err != nil {
			return nil, err
		}
	}
	if len(members) == 0 {
		return []LeaderboardEntry{}, nil
	}
	rows, err := svc.leaderRows(ctx, members, 0)
	if err != nil {
		return nil, err
	}
	return rank(rows, members), nil
}

// rank orders rows by members when given, else keeps the row order.
func rank(rows []leaderRow, members []string) []LeaderboardEntry {
	byID := make(map[string]leaderRow, len(rows))
	for _, r := range rows {
		byID[r.UserID] = r
	}
	if members == nil {
		members = make([]string, len(rows))
		for i, r := range rows {
			members[i] = r.UserID
		}
	}
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, id := range members {
		r, found := byID[id]
		if !found {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     len(entries) + 1,
			UserID:   r.UserID,
			UserName: r.UserName,
			PetName:  r.PetName,
			Stage:    r.Stage,
			XP:       r.XP,
		})
	}
	return entries
}

// Rank returns the user's 1-based position and XP on the leaderboard.
func (svc *Service) Rank(ctx context.Context, userID string) (int, int, error) {
	if svc.cache == nil {
		return 0, 0, fmt.Errorf("%w: leaderboard unavailable", ErrNotFound)
	}
	pos, err := svc.cache.ZRevRank(ctx, LeaderboardKey, userID)
	if cache.IsNotFound(err) {
		return 0, 0, fmt.Errorf("%w: user %s is not ranked", ErrNotFound, userID)
	}
	if err != nil {
		return 0, 0, err
	}
	score, err := svc.cache.ZScore(ctx, LeaderboardKey, userID)
	if err != nil {
		return 0, 0, err
	}
	return int(pos) + 1, int(score), nil
}

// RebuildLeaderboard replaces the sorted set with the current top pets and
// returns how many were written. Members that fell out of the top are dropped.
func (svc *Service) RebuildLeaderboard(ctx context.Context) (int, error) {
	if svc.cache == nil {
		return 0, nil
	}
	rows, err := svc.leaderRows(ctx, nil, MaxLeaderboard)
	if err != nil {
		return 0, err
	}
	scores := make(map[string]float64, len(rows))
	for _, r := range rows {
		scores[r.UserID] = float64(r.XP)
	}
	if err := svc.cache.ZReplace(ctx, LeaderboardKey, scores); err != nil {
		return 0, err
	}
	svc.logger.Debug("leaderboard rebuilt", zap.Int("entries", len(rows)))
	return len(rows), nil
}
