package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
	"github.com/stardust-app/server/model"
)

// Calendar event types.
const (
	EventMoon    = "Moon"
	EventGoal    = "Goal"
	EventGoodDay = "GoodDay"
)

// GoodDayMood is the lowest journal mood shown as a Good Day.
const GoodDayMood = 4

// CalendarEvent is one entry on the month view.
type CalendarEvent struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Calendar is the month view: events sorted by date plus the moon phases
// of the cycle covering mid-month.
type Calendar struct {
	Events     []CalendarEvent    `json:"events"`
	MoonPhases content.MoonPhases `json:"moonPhases"`
}

// Calendar builds the user's events for a month.
func (svc *Service) Calendar(ctx context.Context, userID string, year int, month time.Month) (*Calendar, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	db := svc.db.WithContext(ctx)
	prefix := start[:8] // YYYY-MM-
	phases := content.PhasesFor(year, month)
	events := []CalendarEvent{}

	if nm := phases.NewMoon.String(); strings.HasPrefix(nm, prefix) {
		events = append(events, CalendarEvent{
			ID:          fmt.Sprintf("new-moon-%d-%d", int(month), year),
			Date:        nm,
			Title:       "New Moon",
			Type:        EventMoon,
			Description: "Perfect time for new beginnings and setting intentions",
		})
	}
	if fm := phases.FullMoon.String(); strings.HasPrefix(fm, prefix) {
		events = append(events, CalendarEvent{
			ID:          fmt.Sprintf("full-moon-%d-%d", int(month), year),
			Date:        fm,
			Title:       "Full Moon",
			Type:        EventMoon,
			Description: "Time for reflection and releasing what no longer serves you",
		})
	}

	var activeGoals int64
	if err := db.Model(&model.Goal{}).Where("user_id = ? AND is_paused = ?", userID, false).Count(&activeGoals).Error; err != nil {
		return nil, err
	}
	if activeGoals > 0 {
		for d := (seed.Date{Year: year, Month: month, Day: 1}); d.Month == month; d = d.AddDays(1) {
			if d.Time().Weekday() != time.Monday {
				continue
			}
			events = append(events, CalendarEvent{
				ID:          "goal-check-" + d.String(),
				Date:        d.String(),
				Title:       "Weekly Goal Check-in",
				Type:        EventGoal,
				Description: fmt.Sprintf("Review progress on %d active goal(s)", activeGoals),
			})
		}
	}

	var good []model.JournalEntry
	if err := db.Where("user_id = ? AND date >= ? AND date < ? AND mood >= ?", userID, start, end, GoodDayMood).
		Order("date ASC").Find(&good).Error; err != nil {
		return nil, err
	}
	for _, e := range good {
		events = append(events, CalendarEvent{
			ID:          "good-day-" + e.Date,
			Date:        e.Date,
			Title:       "Good Day",
			Type:        EventGoodDay,
			Description: fmt.Sprintf("Mood rating: %d/5", e.Mood),
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return &Calendar{Events: events, MoonPhases: phases}, nil
}
