package companion

import (
	"encoding/json"
	"fmt"

	"github.com/stardust-app/server/game/seed"
)

// Event is a named mutation of State. The concrete types below are the only
// implementations.
type Event interface {
	Name() string
}

type (
	// SetUser replaces the onboarding profile.
	SetUser struct{ User Profile }
	// CompleteQuest marks one of today's quests done and awards its XP.
	CompleteQuest struct{ ID string }
	// FeedPet grants the daily feed bonus.
	FeedPet struct{}
	// GenerateDailyQuests fetches or creates the quest set for Date
	// (today when zero).
	GenerateDailyQuests struct {
		Date  seed.Date
		Force bool
	}
	// DayRollover regenerates quests when the stored set is not today's.
	DayRollover struct{}
	AddTask     struct{ ID, Title string }
	ToggleTask  struct{ ID string }
	DeleteTask  struct{ ID string }
	SetTaskTop3 struct {
		ID   string
		Top3 bool
	}
	// SetGoals replaces the goal tracks.
	SetGoals struct{ Goals []Goal }
	// Reset returns to the initial state, keeping the pet's name.
	Reset struct{}
)

func (SetUser) Name() string             { return "set_user" }
func (CompleteQuest) Name() string       { return "complete_quest" }
func (FeedPet) Name() string             { return "feed_pet" }
func (GenerateDailyQuests) Name() string { return "generate_daily_quests" }
func (DayRollover) Name() string         { return "day_rollover" }
func (AddTask) Name() string             { return "add_task" }
func (ToggleTask) Name() string          { return "toggle_task" }
func (DeleteTask) Name() string          { return "delete_task" }
func (SetTaskTop3) Name() string         { return "set_task_top3" }
func (SetGoals) Name() string            { return "set_goals" }
func (Reset) Name() string               { return "reset" }

// envelope is the wire form of an event: {"type": "complete_quest", "id": "..."}.
type envelope struct {
	Type  string    `json:"type"`
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Top3  bool      `json:"isTop3"`
	Date  seed.Date `json:"date"`
	Force bool      `json:"force"`
	User  *Profile  `json:"user"`
	Goals []Goal    `json:"goals"`
}

// DecodeEvent parses the wire form of an event.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	switch env.Type {
	case "set_user":
		if env.User == nil {
			return nil, fmt.Errorf("%w: user is required", ErrValidation)
		}
		return SetUser{User: *env.User}, nil
	case "complete_quest":
		return CompleteQuest{ID: env.ID}, nil
	case "feed_pet":
		return FeedPet{}, nil
	case "generate_daily_quests":
		return GenerateDailyQuests{Date: env.Date, Force: env.Force}, nil
	case "day_rollover":
		return DayRollover{}, nil
	case "add_task":
		return AddTask{ID: env.ID, Title: env.Title}, nil
	case "toggle_task":
		return ToggleTask{ID: env.ID}, nil
	case "delete_task":
		return DeleteTask{ID: env.ID}, nil
	case "set_task_top3":
		return SetTaskTop3{ID: env.ID, Top3: env.Top3}, nil
	case "set_goals":
		return SetGoals{Goals: env.Goals}, nil
	case "reset":
		return Reset{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, env.Type)
	}
}
