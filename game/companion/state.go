package companion

import (
	"slices"
	"time"

	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
)

// DefaultPetName names a freshly created companion when no name is configured.
const DefaultPetName = "Companion"

// Profile is the onboarding profile that drives content generation.
type Profile struct {
	Name          string       `json:"name"`
	Vibe          string       `json:"vibe"`
	Sign          content.Sign `json:"sign"`
	TimeAvailable int          `json:"timeAvailable"`
	Reminder      string       `json:"reminder"`
	HasOnboarded  bool         `json:"hasOnboarded"`
}

// Task is a to-do item held by the client.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	IsTop3      bool      `json:"isTop3"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Goal is a long-running goal track.
type Goal struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Why             string `json:"why"`
	NorthStar       string `json:"northStar"`
	WeeklyMilestone string `json:"weeklyMilestone"`
	DailyMicroStep  string `json:"dailyMicroStep"`
	FallbackStep    string `json:"fallbackStep"`
	IsActive        bool   `json:"isActive"`
	Progress        int    `json:"progress"`
}

// Pet is the companion's progression.
type Pet struct {
	Name              string    `json:"name"`
	Stage             Stage     `json:"stage"`
	XP                int       `json:"xp"`
	Streak            int       `json:"streak"`
	HasHatched        bool      `json:"hasHatched"`
	LastInteractionAt time.Time `json:"lastInteractionDate"`
	LastFedDate       seed.Date `json:"lastFedDate"`
}

// State is the whole client-held aggregate. Treat it as a value: Reduce never
// mutates the State it is given.
type State struct {
	User          *Profile        `json:"user"`
	Quests        []content.Quest `json:"quests"`
	Tasks         []Task          `json:"tasks"`
	Goals         []Goal          `json:"goals"`
	Pet           Pet             `json:"pet"`
	LastQuestDate seed.Date       `json:"lastQuestDate"`
}

// NewState returns the empty aggregate with an unhatched pet.
func NewState(petName string) State {
	if petName == "" {
		petName = DefaultPetName
	}
	return State{
		Quests: []content.Quest{},
		Tasks:  []Task{},
		Goals:  []Goal{},
		Pet:    Pet{Name: petName, Stage: StageEgg},
	}
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Quests = slices.Clone(s.Quests)
	out.Tasks = slices.Clone(s.Tasks)
	out.Goals = slices.Clone(s.Goals)
	if out.Quests == nil {
		out.Quests = []content.Quest{}
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	if out.Goals == nil {
		out.Goals = []Goal{}
	}
	return out
}

func (s State) questIndex(id string) int {
	return slices.IndexFunc(s.Quests, func(q content.Quest) bool { return q.ID == id })
}

func (s State) taskIndex(id string) int {
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}
