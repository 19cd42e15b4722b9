package quest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stardust-app/server/audit"
	"github.com/stardust-app/server/cache"
	"github.com/stardust-app/server/game/companion"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
	"github.com/stardust-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("quest: not found")
	ErrValidation = errors.New("quest: validation failed")
)

// LeaderboardKey is the sorted set of user IDs scored by pet XP.
const LeaderboardKey = "leaderboard:xp"

// Companion event types published on Channel(userID).
const (
	EventQuestCompleted = "quest_completed"
	EventPetFed         = "pet_fed"
	EventEvolved        = "evolved"
)

// Channel is the pubsub channel carrying a user's companion events.
func Channel(userID string) string { return "companion:" + userID }

// Event is the payload published to Channel(userID).
type Event struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	QuestID  string `json:"questId,omitempty"`
	XPGained int    `json:"xpGained,omitempty"`
	XP       int    `json:"xp"`
	Stage    string `json:"stage"`
	Streak   int    `json:"streak"`
	Message  string `json:"message,omitempty"`
}

// Outcome reports what a completion or feed did. A rejected request has
// Applied false and a Reason, and is not an error.
type Outcome struct {
	Applied  bool            `json:"applied"`
	Reason   string          `json:"reason,omitempty"`
	XPGained int             `json:"xpGained"`
	Evolved  bool            `json:"evolved"`
	NewStage companion.Stage `json:"newStage,omitempty"`
	Pet      model.Pet       `json:"pet"`
	Quest    *model.Quest    `json:"quest,omitempty"`
}

// Stats summarizes a user's activity.
type Stats struct {
	TotalQuests         int64  `json:"totalQuests"`
	CompletedQuests     int64  `json:"completedQuests"`
	QuestCompletionRate int    `json:"questCompletionRate"`
	TotalTasks          int64  `json:"totalTasks"`
	CompletedTasks      int64  `json:"completedTasks"`
	TaskCompletionRate  int    `json:"taskCompletionRate"`
	ActiveGoals         int64  `json:"activeGoals"`
	JournalEntries      int64  `json:"journalEntries"`
	PetXP               int    `json:"petXp"`
	PetStage            string `json:"petStage"`
	Streak              int    `json:"streak"`
	ActiveDays          int    `json:"activeDays"`
}

// Service owns server-side quests and the pet they feed.
type Service struct {
	db      *gorm.DB
	cache   cache.Cache
	pubsub  cache.PubSub
	audit   *audit.Service
	petName string
	logger  *zap.Logger
}

// NewService creates a quest Service. cache, pubsub and audit may be nil.
func NewService(db *gorm.DB, c cache.Cache, ps cache.PubSub, au *audit.Service, petName string, logger *zap.Logger) *Service {
	if petName == "" {
		petName = companion.DefaultPetName
	}
	return &Service{db: db, cache: c, pubsub: ps, audit: au, petName: petName, logger: logger}
}

// Generate returns the user's quests for date, creating them on first use.
// Concurrent first calls converge on one set through the unique
// (user_id, date, type) index. With force the date's rows are rebuilt and
// completion flags carried over.
func (svc *Service) Generate(ctx context.Context, userID string, date seed.Date, timeAvailable int, force bool) ([]model.Quest, error) {
	if !force {
		existing, err := svc.List(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return existing, nil
		}
	}

	generated := content.GenerateDailyQuests(timeAvailable, date)
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		done := map[string]*time.Time{}
		if force {
			var old []model.Quest
			if err := tx.Where("user_id = ? AND date = ?", userID, date.String()).Find(&old).Error; err != nil {
				return err
			}
			for _, q := range old {
				if q.IsCompleted {
					done[q.Type] = q.CompletedAt
				}
			}
			if err := tx.Where("user_id = ? AND date = ?", userID, date.String()).Delete(&model.Quest{}).Error; err != nil {
				return err
			}
		}

		rows := make([]model.Quest, 0, len(generated))
		for _, g := range generated {
			row := model.Quest{
				ID:               uuid.NewString(),
				UserID:           userID,
				Date:             date.String(),
				Type:             string(g.Type),
				Slug:             g.ID,
				Title:            g.Title,
				XP:               g.XP,
				EstimatedMinutes: g.EstimatedMinutes,
				TinyVersion:      g.TinyVersion,
			}
			if at, ok := done[row.Type]; ok {
				row.IsCompleted = true
				row.CompletedAt = at
			}
			rows = append(rows, row)
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return svc.List(ctx, userID, date)
}

// List returns the user's quests for date in slot order.
func (svc *Service) List(ctx context.Context, userID string, date seed.Date) ([]model.Quest, error) {
	var quests []model.Quest
	if err := svc.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.String()).
		Find(&quests).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(quests, func(i, j int) bool {
		return slotOrder(quests[i].Type) < slotOrder(quests[j].Type)
	})
	return quests, nil
}

func slotOrder(t string) int {
	for i, qt := range content.QuestTypes {
		if string(qt) == t {
			return i
		}
	}
	return len(content.QuestTypes)
}

// Complete marks a quest done and awards its XP. Only quests in the set for
// now's UTC day can be completed; anything else is ErrNotFound. Completion is
// one-way: a second call is a no-op with ReasonAlreadyCompleted.
func (svc *Service) Complete(ctx context.Context, userID, questID string, now time.Time) (*Outcome, error) {
	today := seed.Today(now)
	var out *Outcome
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q model.Quest
		err := tx.Where("id = ? AND user_id = ?", questID, userID).First(&q).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: quest %s", ErrNotFound, questID)
		}
		if err != nil {
			return err
		}
		if q.Date != today.String() {
			return fmt.Errorf("%w: quest %s is dated %s, not %s", ErrNotFound, questID, q.Date, today)
		}

		completedAt := now.UTC()
		res := tx.Model(&model.Quest{}).
			Where("id = ? AND is_completed = ?", questID, false).
			Updates(map[string]interface{}{"is_completed": true, "completed_at": completedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			pet, err := svc.ensurePet(tx, userID)
			if err != nil {
				return err
			}
			q.IsCompleted = true
			out = &Outcome{Reason: companion.ReasonAlreadyCompleted, Pet: *pet, Quest: &q}
			return nil
		}
		q.IsCompleted = true
		q.CompletedAt = &completedAt

		aw, err := svc.award(tx, userID, q.XP, q.Type == string(content.QuestMain), today, now, "")
		if err != nil {
			return err
		}
		aw.Quest = &q
		out = aw
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Applied {
		svc.afterAward(ctx, userID, audit.ActionQuestComplete, EventQuestCompleted, out)
	}
	return out, nil
}

// Feed gives the pet FeedXP once per UTC day. Feeding never hatches.
func (svc *Service) Feed(ctx context.Context, userID string, now time.Time) (*Outcome, error) {
	today := seed.Today(now)
	var out *Outcome
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		aw, err := svc.award(tx, userID, companion.FeedXP, false, today, now, today.String())
		if err != nil {
			return err
		}
		out = aw
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Applied {
		svc.afterAward(ctx, userID, audit.ActionPetFeed, EventPetFed, out)
	}
	return out, nil
}

// award adds xp to the pet in one statement. Stage and streak are computed
// from the pre-update column values. A non-empty fedDate turns the call into
// a feed guarded by last_fed_date.
func (svc *Service) award(tx *gorm.DB, userID string, xp int, hatch bool, today seed.Date, now time.Time, fedDate string) (*Outcome, error) {
	if _, err := svc.ensurePet(tx, userID); err != nil {
		return nil, err
	}

	hatchedNow := false
	if hatch {
		res := tx.Model(&model.Pet{}).
			Where("user_id = ? AND has_hatched = ?", userID, false).
			Update("has_hatched", true)
		if res.Error != nil {
			return nil, res.Error
		}
		hatchedNow = res.RowsAffected == 1
	}

	// MySQL evaluates SET left to right, so the columns read by the CASE
	// expressions are assigned after them.
	stageExpr := `CASE WHEN has_hatched = ? THEN
			CASE WHEN xp + ? >= ? THEN ? WHEN xp + ? >= ? THEN ? WHEN xp + ? >= ? THEN ? ELSE ? END
		ELSE ? END`
	args := []interface{}{
		true,
		xp, companion.EvolvedXP, string(companion.StageEvolved),
		xp, companion.AdultXP, string(companion.StageAdult),
		xp, companion.JuniorXP, string(companion.StageJunior),
		string(companion.StageHatchling),
		string(companion.StageEgg),
	}

	var sql strings.Builder
	sql.WriteString("UPDATE pets SET stage = " + stageExpr)
	var where string
	if fedDate == "" {
		sql.WriteString(`, streak = CASE
			WHEN streak_date = ? THEN CASE WHEN streak < 1 THEN 1 ELSE streak END
			WHEN streak_date = ? THEN streak + 1
			ELSE 1 END`)
		args = append(args, today.String(), today.AddDays(-1).String())
		sql.WriteString(", streak_date = ?, last_interaction_at = ?")
		args = append(args, today.String(), now.UTC())
		where = " WHERE user_id = ?"
	} else {
		sql.WriteString(", last_fed_date = ?")
		args = append(args, fedDate)
		where = " WHERE user_id = ? AND last_fed_date <> ?"
	}
	sql.WriteString(", xp = xp + ?, updated_at = ?")
	args = append(args, xp, now.UTC())
	sql.WriteString(where)
	args = append(args, userID)
	if fedDate != "" {
		args = append(args, fedDate)
	}

	res := tx.Exec(sql.String(), args...)
	if res.Error != nil {
		return nil, res.Error
	}

	var pet model.Pet
	if err := tx.Where("user_id = ?", userID).First(&pet).Error; err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return &Outcome{Reason: companion.ReasonAlreadyFed, Pet: pet}, nil
	}

	prev := companion.ComputeStage(pet.XP-xp, pet.HasHatched && !hatchedNow)
	stage := companion.Stage(pet.Stage)
	return &Outcome{
		Applied:  true,
		XPGained: xp,
		Evolved:  stage != prev,
		NewStage: stage,
		Pet:      pet,
	}, nil
}

// ensurePet returns the user's pet, creating an Egg if there is none.
func (svc *Service) ensurePet(tx *gorm.DB, userID string) (*model.Pet, error) {
	pet := model.Pet{ID: uuid.NewString(), UserID: userID, Name: svc.petName}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pet).Error; err != nil {
		return nil, err
	}
	var got model.Pet
	if err := tx.Where("user_id = ?", userID).First(&got).Error; err != nil {
		return nil, err
	}
	return &got, nil
}

func (svc *Service) afterAward(ctx context.Context, userID, action, eventType string, out *Outcome) {
	detail := map[string]interface{}{"stage": out.Pet.Stage, "xp": out.Pet.XP}
	if out.Quest != nil {
		detail["questId"] = out.Quest.ID
		detail["questType"] = out.Quest.Type
	}
	svc.audit.Log(audit.Entry{UserID: userID, Action: action, XPDelta: out.XPGained, Detail: detail})
	if out.Evolved {
		svc.audit.Log(audit.Entry{UserID: userID, Action: audit.ActionPetEvolve, Detail: map[string]string{"stage": string(out.NewStage)}})
	}

	if svc.cache != nil {
		if err := svc.cache.ZAdd(ctx, LeaderboardKey, float64(out.Pet.XP), userID); err != nil {
			svc.logger.Warn("leaderboard update failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	ev := Event{
		Type:     eventType,
		UserID:   userID,
		XPGained: out.XPGained,
		XP:       out.Pet.XP,
		Stage:    out.Pet.Stage,
		Streak:   out.Pet.Streak,
	}
	if out.Quest != nil {
		ev.QuestID = out.Quest.ID
	}
	svc.publish(ctx, ev)
	if out.Evolved {
		ev.Type = EventEvolved
		ev.Message = fmt.Sprintf("%s evolved to %s!", out.Pet.Name, out.NewStage)
		svc.publish(ctx, ev)
	}

	svc.logger.Info("xp awarded",
		zap.String("user_id", userID),
		zap.String("action", action),
		zap.Int("xp_gained", out.XPGained),
		zap.Int("xp", out.Pet.XP),
		zap.String("stage", out.Pet.Stage),
		zap.Bool("evolved", out.Evolved))
}

func (svc *Service) publish(ctx context.Context, ev Event) {
	if svc.pubsub == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := svc.pubsub.Publish(ctx, Channel(ev.UserID), string(b)); err != nil {
		svc.logger.Warn("companion event publish failed", zap.String("user_id", ev.UserID), zap.Error(err))
	}
}

// Pet returns the user's pet, creating it on first access.
func (svc *Service) Pet(ctx context.Context, userID string) (*model.Pet, error) {
	return svc.ensurePet(svc.db.WithContext(ctx), userID)
}

// RenamePet trims and stores a new pet name.
func (svc *Service) RenamePet(ctx context.Context, userID, name string) (*model.Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(name) > 64 {
		return nil, fmt.Errorf("%w: name is too long", ErrValidation)
	}
	db := svc.db.WithContext(ctx)
	if _, err := svc.ensurePet(db, userID); err != nil {
		return nil, err
	}
	if err := db.Model(&model.Pet{}).Where("user_id = ?", userID).Update("name", name).Error; err != nil {
		return nil, err
	}
	return svc.ensurePet(db, userID)
}

// Stats counts the user's quests, tasks, goals and journal entries.
// ActiveDays is the number of distinct days among the last 30 completions.
func (svc *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	db := svc.db.WithContext(ctx)
	st := &Stats{PetStage: string(companion.StageEgg)}

	counts := []struct {
		dst   *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&st.TotalQuests, &model.Quest{}, "user_id = ?", []interface{}{userID}},
		{&st.CompletedQuests, &model.Quest{}, "user_id = ? AND is_completed = ?", []interface{}{userID, true}},
		{&st.TotalTasks, &model.Task{}, "user_id = ?", []interface{}{userID}},
		{&st.CompletedTasks, &model.Task{}, "user_id = ? AND is_completed = ?", []interface{}{userID, true}},
		{&st.ActiveGoals, &model.Goal{}, "user_id = ? AND is_paused = ?", []interface{}{userID, false}},
		{&st.JournalEntries, &model.JournalEntry{}, "user_id = ?", []interface{}{userID}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	st.QuestCompletionRate = percent(st.CompletedQuests, st.TotalQuests)
	st.TaskCompletionRate = percent(st.CompletedTasks, st.TotalTasks)

	var pet model.Pet
	err := db.Where("user_id = ?", userID).First(&pet).Error
	switch {
	case err == nil:
		st.PetXP, st.PetStage, st.Streak = pet.XP, pet.Stage, pet.Streak
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var recent []model.Quest
	if err := db.Where("user_id = ? AND is_completed = ?", userID, true).
		Order("completed_at DESC").Limit(30).Find(&recent).Error; err != nil {
		return nil, err
	}
	days := map[string]bool{}
	for _, q := range recent {
		if q.CompletedAt != nil {
			days[seed.FromTime(q.CompletedAt.UTC()).String()] = true
		}
	}
	st.ActiveDays = len(days)
	return st, nil
}

func percent(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int((part*100 + total/2) / total)
}
