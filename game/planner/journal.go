package planner

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stardust-app/server/game/content"
	"github.com/stardust-app/server/game/seed"
	"github.com/stardust-app/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// DefaultMood is stored when an entry has no mood.
const DefaultMood = 3

// JournalInput is the body of an upsert.
type JournalInput struct {
	Date         string          `json:"date"`
	TarotCard    string          `json:"tarotCard"`
	TarotMeaning string          `json:"tarotMeaning"`
	Prompts      json.RawMessage `json:"prompts"`
	Mood         int             `json:"mood"`
}

// JournalSummary aggregates one month of entries.
type JournalSummary struct {
	TotalEntries   int     `json:"totalEntries"`
	AverageMood    float64 `json:"averageMood"`
	MostCommonCard *string `json:"mostCommonCard"`
	EntriesPerWeek float64 `json:"entriesPerWeek"`
}

// monthRange is the half-open [start, end) date range of a month as
// YYYY-MM-DD strings, which order correctly as text.
func monthRange(year int, month time.Month) (string, string, error) {
	if year < 1 || month < time.January || month > time.December {
		return "", "", invalid("month and year are required")
	}
	start := seed.Date{Year: year, Month: month, Day: 1}
	end := seed.FromTime(start.Time().AddDate(0, 1, 0))
	return start.String(), end.String(), nil
}

// JournalEntries lists entries newest first. A zero year or month lists all.
func (svc *Service) JournalEntries(ctx context.Context, userID string, year int, month time.Month) ([]model.JournalEntry, error) {
	q := svc.db.WithContext(ctx).Where("user_id = ?", userID)
	if year != 0 && month != 0 {
		start, end, err := monthRange(year, month)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ? AND date < ?", start, end)
	}
	entries := []model.JournalEntry{}
	err := q.Order("date DESC").Find(&entries).Error
	return entries, err
}

// SaveJournalEntry creates or replaces the user's entry for in.Date.
func (svc *Service) SaveJournalEntry(ctx context.Context, userID string, in JournalInput) (*model.JournalEntry, error) {
	if strings.TrimSpace(in.Date) == "" {
		return nil, invalid("date is required")
	}
	d, err := seed.ParseDate(in.Date)
	if err != nil {
		return nil, invalid(err.Error())
	}
	prompts := datatypes.JSON("[]")
	if len(in.Prompts) > 0 && string(in.Prompts) != "null" {
		if !json.Valid(in.Prompts) {
			return nil, invalid("prompts must be JSON")
		}
		prompts = datatypes.JSON(in.Prompts)
	}
	mood := in.Mood
	if mood == 0 {
		mood = DefaultMood
	}
	if mood < 1 || mood > 5 {
		return nil, invalid("mood must be between 1 and 5")
	}

	entry := &model.JournalEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         d.String(),
		TarotCard:    in.TarotCard,
		TarotMeaning: in.TarotMeaning,
		Prompts:      prompts,
		Mood:         mood,
	}
	db := svc.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"tarot_card", "tarot_meaning", "prompts", "mood", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return nil, err
	}
	var saved model.JournalEntry
	if err := db.Where("user_id = ? AND date = ?", userID, d.String()).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// JournalSummary aggregates the user's entries of one month. The most common
// card breaks ties by earliest date.
func (svc *Service) JournalSummary(ctx context.Context, userID string, year int, month time.Month) (*JournalSummary, error) {
	start, end, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	var entries []model.JournalEntry
	if err := svc.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	sum := &JournalSummary{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return sum, nil
	}
	total := 0
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		total += e.Mood
		if e.TarotCard == "" {
			continue
		}
		if counts[e.TarotCard] == 0 {
			order = append(order, e.TarotCard)
		}
		counts[e.TarotCard]++
	}
	sum.AverageMood = round1(float64(total) / float64(len(entries)))
	sum.EntriesPerWeek = round1(float64(len(entries)) / 4)
	best := 0
	for _, card := range order {
		if counts[card] > best {
			best = counts[card]
			c := card
			sum.MostCommonCard = &c
		}
	}
	return sum, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// DrawTarot draws a random card for the journal.
func (svc *Service) DrawTarot() content.TarotCard {
	return content.DrawTarot(nil)
}
