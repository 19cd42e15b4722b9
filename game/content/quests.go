package content

import (
	"strings"

	"github.com/stardust-app/server/game/seed"
)

// QuestType is one of the three daily quest slots.
type QuestType string

const (
	QuestMain     QuestType = "Main"
	QuestSide     QuestType = "Side"
	QuestRecovery QuestType = "Recovery"
)

// QuestTypes lists the slots in generation order; the index is the slot salt.
var QuestTypes = []QuestType{QuestMain, QuestSide, QuestRecovery}

// ParseQuestType returns the type and whether it is known.
func ParseQuestType(s string) (QuestType, bool) {
	for _, qt := range QuestTypes {
		if strings.EqualFold(s, string(qt)) {
			return qt, true
		}
	}
	return "", false
}

// XP awarded on completion, per slot.
const (
	MainQuestXP     = 50
	SideQuestXP     = 20
	RecoveryQuestXP = 10
)

// QuestXP returns the completion reward for t.
func QuestXP(t QuestType) int {
	switch t {
	case QuestMain:
		return MainQuestXP
	case QuestSide:
		return SideQuestXP
	default:
		return RecoveryQuestXP
	}
}

// Quest is one generated daily quest.
type Quest struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Type             QuestType `json:"type"`
	XP               int       `json:"xp"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	IsCompleted      bool      `json:"isCompleted"`
	TinyVersion      string    `json:"tinyVersion,omitempty"`
}

type questTemplate struct {
	title       string
	tinyVersion string
}

var mainQuests = []questTemplate{
	{"Complete your main project task", "Outline the next step (2 min)"},
	{"Work on your biggest priority", "Write down what needs to happen next (2 min)"},
	{"Make progress on your #1 goal", "Take one small action (2 min)"},
	{"Tackle the thing you've been avoiding", "Just start with 2 minutes"},
}

var sideQuests = []questTemplate{
	{title: "Quick tidy up"},
	{title: "Reply to one important message"},
	{title: "Review your calendar for tomorrow"},
	{title: "Organize one small area"},
	{title: "Clear your inbox"},
}

var recoveryQuests = []questTemplate{
	{title: "Deep breathing exercise"},
	{title: "Take a short walk"},
	{title: "Stretch for a few minutes"},
	{title: "Listen to calming music"},
	{title: "Drink a full glass of water"},
}

// DefaultTimeAvailable is the daily minutes assumed for users who never set
// a preference.
const DefaultTimeAvailable = 20

// Fixed durations for the non-main slots.
const (
	sideQuestMinutes     = 5
	recoveryQuestMinutes = 2
)

// MainQuestMinutes clamps the main quest to the user's available time.
func MainQuestMinutes(timeAvailable int) int {
	switch {
	case timeAvailable >= 20:
		return 20
	case timeAvailable >= 10:
		return 10
	default:
		return 5
	}
}

// QuestID is the stable id of a slot on a date, e.g. "main-2024-03-01".
func QuestID(t QuestType, d seed.Date) string {
	return strings.ToLower(string(t)) + "-" + d.String()
}

// GenerateDailyQuests returns exactly one Main, Side and Recovery quest for d.
// Each slot is picked with its own salt so choices do not correlate. The
// result depends only on (timeAvailable, d).
func GenerateDailyQuests(timeAvailable int, d seed.Date) []Quest {
	tables := [][]questTemplate{mainQuests, sideQuests, recoveryQuests}
	quests := make([]Quest, 0, len(QuestTypes))
	for salt, qt := range QuestTypes {
		table := tables[salt]
		tpl := table[seed.Index(d, salt, len(table))]

		minutes := recoveryQuestMinutes
		switch qt {
		case QuestMain:
			minutes = MainQuestMinutes(timeAvailable)
		case QuestSide:
			minutes = sideQuestMinutes
		}
		quests = append(quests, Quest{
			ID:               QuestID(qt, d),
			Title:            tpl.title,
			Type:             qt,
			XP:               QuestXP(qt),
			EstimatedMinutes: minutes,
			TinyVersion:      tpl.tinyVersion,
		})
	}
	return quests
}
