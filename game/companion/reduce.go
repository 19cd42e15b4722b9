package companion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
)

var (
	// ErrNotFound is returned when an event references a quest or task that
	// is not in the state.
	ErrNotFound = errors.New("companion: not found")
	// ErrValidation is returned for malformed events.
	ErrValidation = errors.New("companion: validation failed")
)

// No-op reasons reported in Result.Reason.
const (
	ReasonAlreadyCompleted = "already completed"
	ReasonAlreadyFed       = "already fed today"
	ReasonAlreadyGenerated = "quests already generated"
	ReasonUpToDate         = "quests are up to date"
	ReasonNoUser           = "no user profile"
)

// Result describes what an event did. Exactly one of Applied, Reason or Err
// is meaningful: Applied for a state change, Reason for a reported no-op and
// Err for a rejected event.
type Result struct {
	Applied  bool   `json:"applied"`
	Reason   string `json:"reason,omitempty"`
	XPGained int    `json:"xpGained"`
	Evolved  bool   `json:"evolved"`
	NewStage Stage  `json:"newStage,omitempty"`
	Err      error  `json:"-"`
}

func applied() Result           { return Result{Applied: true} }
func noop(reason string) Result { return Result{Reason: reason} }
func rejected(err error) Result { return Result{Err: err} }

func notFound(kind, id string) Result {
	return rejected(fmt.Errorf("%w: %s %q", ErrNotFound, kind, id))
}

// Reduce applies ev to s as of now and returns the next state. It is pure:
// s is never modified and the same inputs give the same outputs. When the
// event is a no-op or rejected the returned state is s itself.
func Reduce(s State, ev Event, now time.Time) (State, Result) {
	today := seed.Today(now)
	switch e := ev.(type) {
	case SetUser:
		next := s.clone()
		u := e.User
		u.Sign = content.ParseSign(string(u.Sign))
		next.User = &u
		return next, applied()
	case CompleteQuest:
		return completeQuest(s, e.ID, today, now)
	case FeedPet:
		return feedPet(s, today)
	case GenerateDailyQuests:
		d := e.Date
		if d.IsZero() {
			d = today
		}
		return generateQuests(s, d, e.Force)
	case DayRollover:
		if s.User == nil {
			return s, noop(ReasonNoUser)
		}
		if s.LastQuestDate == today && len(s.Quests) > 0 {
			return s, noop(ReasonUpToDate)
		}
		return generateQuests(s, today, true)
	case AddTask:
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return s, rejected(fmt.Errorf("%w: title is required", ErrValidation))
		}
		if e.ID == "" || s.taskIndex(e.ID) >= 0 {
			return s, rejected(fmt.Errorf("%w: task id %q is empty or taken", ErrValidation, e.ID))
		}
		next := s.clone()
		next.Tasks = append(next.Tasks, Task{ID: e.ID, Title: title, CreatedAt: now.UTC()})
		return next, applied()
	case ToggleTask:
		i := s.taskIndex(e.ID)
		if i < 0 {
			return s, notFound("task", e.ID)
		}
		next := s.clone()
		next.Tasks[i].IsCompleted = !next.Tasks[i].IsCompleted
		return next, applied()
	case DeleteTask:
		i := s.taskIndex(e.ID)
		if i < 0 {
			return s, notFound("task", e.ID)
		}
		next := s.clone()
		next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
		return next, applied()
	case SetTaskTop3:
		i := s.taskIndex(e.ID)
		if i < 0 {
			return s, notFound("task", e.ID)
		}
		next := s.clone()
		next.Tasks[i].IsTop3 = e.Top3
		return next, applied()
	case SetGoals:
		next := s.clone()
		next.Goals = make([]Goal, len(e.Goals))
		for i, g := range e.Goals {
			g.Progress = min(max(g.Progress, 0), 100)
			next.Goals[i] = g
		}
		return next, applied()
	case Reset:
		return NewState(s.Pet.Name), applied()
	default:
		return s, rejected(fmt.Errorf("%w: unsupported event %T", ErrValidation, ev))
	}
}

func completeQuest(s State, id string, today seed.Date, now time.Time) (State, Result) {
	i := s.questIndex(id)
	if i < 0 || s.LastQuestDate != today {
		return s, notFound("quest", id)
	}
	q := s.Quests[i]
	if q.IsCompleted {
		return s, noop(ReasonAlreadyCompleted)
	}

	next := s.clone()
	next.Quests[i].IsCompleted = true

	gain := content.QuestXP(q.Type)
	pet := next.Pet
	prev := pet.Stage
	pet.HasHatched = pet.HasHatched || q.Type == content.QuestMain
	pet.XP += gain
	pet.Stage = ComputeStage(pet.XP, pet.HasHatched)
	pet.Streak = NextStreak(pet.Streak, lastInteraction(pet), today)
	pet.LastInteractionAt = now.UTC()
	next.Pet = pet

	return next, Result{Applied: true, XPGained: gain, Evolved: pet.Stage != prev, NewStage: pet.Stage}
}

func feedPet(s State, today seed.Date) (State, Result) {
	if s.Pet.LastFedDate == today {
		return s, noop(ReasonAlreadyFed)
	}
	next := s.clone()
	pet := next.Pet
	prev := pet.Stage
	pet.XP += FeedXP
	pet.LastFedDate = today
	pet.Stage = ComputeStage(pet.XP, pet.HasHatched)
	next.Pet = pet
	return next, Result{Applied: true, XPGained: FeedXP, Evolved: pet.Stage != prev, NewStage: pet.Stage}
}

// generateQuests replaces the quest set with the one for d. Regenerating the
// same date keeps completion flags so a forced refresh cannot re-award XP.
func generateQuests(s State, d seed.Date, force bool) (State, Result) {
	if s.User == nil {
		return s, noop(ReasonNoUser)
	}
	if !force && s.LastQuestDate == d && len(s.Quests) > 0 {
		return s, noop(ReasonAlreadyGenerated)
	}
	next := s.clone()
	quests := content.GenerateDailyQuests(s.User.TimeAvailable, d)
	if s.LastQuestDate == d {
		for i := range quests {
			if j := s.questIndex(quests[i].ID); j >= 0 {
				quests[i].IsCompleted = s.Quests[j].IsCompleted
			}
		}
	}
	next.Quests = quests
	next.LastQuestDate = d
	return next, applied()
}

func lastInteraction(p Pet) seed.Date {
	if p.LastInteractionAt.IsZero() {
		return seed.Date{}
	}
	return seed.Today(p.LastInteractionAt)
}
