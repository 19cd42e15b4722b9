package content

import (
	"math/rand/v2"

	"github.com/stardust-app/server/game/seed"
)

// TarotCard is one major arcana card.
type TarotCard struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning"`
}

// TarotCards is the major arcana deck.
var TarotCards = []TarotCard{
	{"The Fool", "New beginnings, innocence, spontaneity"},
	{"The Magician", "Manifestation, resourcefulness, power"},
	{"The High Priestess", "Intuition, sacred knowledge, mystery"},
	{"The Empress", "Femininity, beauty, nature, abundance"},
	{"The Emperor", "Authority, structure, control, fatherhood"},
	{"The Hierophant", "Tradition, conformity, morality, ethics"},
	{"The Lovers", "Love, harmony, relationships, choices"},
	{"The Chariot", "Control, willpower, success, determination"},
	{"Strength", "Courage, persuasion, influence, compassion"},
	{"The Hermit", "Soul-searching, introspection, inner guidance"},
	{"Wheel of Fortune", "Good luck, karma, cycles, destiny"},
	{"Justice", "Fairness, truth, cause and effect, law"},
	{"The Hanged Man", "Pause, surrender, letting go, new perspectives"},
	{"Death", "Endings, change, transformation, transition"},
	{"Temperance", "Balance, moderation, patience, purpose"},
	{"The Devil", "Shadow self, attachment, addiction, restriction"},
	{"The Tower", "Sudden change, upheaval, chaos, revelation"},
	{"The Star", "Hope, faith, purpose, renewal, spirituality"},
	{"The Moon", "Illusion, fear, anxiety, subconscious"},
	{"The Sun", "Positivity, fun, warmth, success, vitality"},
	{"Judgement", "Reflection, reckoning, awakening"},
	{"The World", "Completion, integration, accomplishment"},
}

// DrawTarot draws a card at random. A nil rng uses the global source.
func DrawTarot(rng *rand.Rand) TarotCard {
	if rng == nil {
		return TarotCards[rand.IntN(len(TarotCards))]
	}
	return TarotCards[rng.IntN(len(TarotCards))]
}

// DailyTarot is the deterministic card of the day for a salt (for example a
// per-user value).
func DailyTarot(d seed.Date, salt int) TarotCard {
	return TarotCards[seed.Index(d, salt, len(TarotCards))]
}
