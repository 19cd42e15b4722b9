package content

import "github.com/stardust-app/server/game/seed"

// Mode is the day's suggested energy.
type Mode string

const (
	ModeFocus  Mode = "Focus"
	ModeSocial Mode = "Social"
	ModeReset  Mode = "Reset"
)

// TimingHint is the suggested part of the day.
type TimingHint string

const (
	TimingMorning   TimingHint = "Morning"
	TimingAfternoon TimingHint = "Afternoon"
	TimingEvening   TimingHint = "Evening"
)

// DailyGuidance is derived purely from (sign, date).
type DailyGuidance struct {
	Sign         Sign       `json:"sign"`
	Date         seed.Date  `json:"date"`
	StarGuidance string     `json:"starGuidance"`
	Theme        string     `json:"theme"`
	Mode         Mode       `json:"mode"`
	Do           []string   `json:"do"`
	Avoid        []string   `json:"avoid"`
	TimingHint   TimingHint `json:"timingHint"`
}

var themes = []string{
	"Embrace the unknown.",
	"Focus on your inner strength.",
	"Connect with an old friend.",
	"Take a moment to breathe.",
	"Push your boundaries today.",
}

var signMessages = map[Sign]string{
	Aries:       "Your fiery energy is amplified today. Channel it wisely.",
	Taurus:      "Ground yourself in what brings you peace.",
	Gemini:      "Your mind is especially sharp. Use it to solve puzzles.",
	Cancer:      "Trust your intuition, it's guiding you home.",
	Leo:         "Your natural charisma shines bright. Lead with heart.",
	Virgo:       "Details matter today. Your precision is your superpower.",
	Libra:       "Seek balance in all things. Harmony awaits.",
	Scorpio:     "Transformation is calling. Embrace the change.",
	Sagittarius: "Adventure beckons. Follow your curiosity.",
	Capricorn:   "Your determination moves mountains today.",
	Aquarius:    "Innovation flows through you. Share your vision.",
	Pisces:      "Dreams hold important messages. Pay attention.",
	NotSure:     "The stars align in your favor today. Stay open to possibilities.",
}

var (
	dailyDo    = []string{"Drink water", "Take a walk", "Write down 3 goals"}
	dailyAvoid = []string{"Procrastination", "Negative talk", "Skipping meals"}
)

// Salts used by GenerateDailyGuidance.
const (
	guidanceThemeSalt  = 0
	guidanceModeSalt   = 1
	guidanceTimingSalt = 2
)

// thirds buckets a [0,1) value at 0.33 and 0.66.
func thirds[T any](v float64, low, mid, high T) T {
	switch {
	case v < 0.33:
		return low
	case v < 0.66:
		return mid
	default:
		return high
	}
}

// GenerateDailyGuidance builds the guidance card for sign on d. Theme, mode
// and timing depend only on the date; the star message depends on the sign.
func GenerateDailyGuidance(sign Sign, d seed.Date) DailyGuidance {
	sign = ParseSign(string(sign))
	return DailyGuidance{
		Sign:         sign,
		Date:         d,
		StarGuidance: signMessages[sign],
		Theme:        themes[seed.Index(d, guidanceThemeSalt, len(themes))],
		Mode:         thirds(seed.Seed(d, guidanceModeSalt), ModeFocus, ModeSocial, ModeReset),
		Do:           append([]string(nil), dailyDo...),
		Avoid:        append([]string(nil), dailyAvoid...),
		TimingHint:   thirds(seed.Seed(d, guidanceTimingSalt), TimingMorning, TimingAfternoon, TimingEvening),
	}
}
