package content

// CompatibilityReading describes how two signs get along.
type CompatibilityReading struct {
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
	Friction  string   `json:"friction"`
	Advice    string   `json:"advice"`
}

type signPair struct{ a, b Sign }

var compatibilityTable = map[signPair]CompatibilityReading{
	{Aries, Aries}:             {75, []string{"Passion", "Energy", "Adventure"}, "Both want to lead", "Take turns being in charge"},
	{Aries, Leo}:               {90, []string{"Excitement", "Loyalty", "Fun"}, "Ego clashes", "Celebrate each other's wins"},
	{Aries, Sagittarius}:       {95, []string{"Adventure", "Optimism", "Freedom"}, "Commitment fears", "Build trust through shared experiences"},
	{Aries, Taurus}:            {55, []string{"Determination", "Protection"}, "Different paces", "Find compromise in timing"},
	{Aries, Cancer}:            {45, []string{"Care", "Protection"}, "Emotional expression", "Learn each other's love language"},
	{Aries, Gemini}:            {80, []string{"Curiosity", "Energy", "Fun"}, "Focus issues", "Keep things interesting"},
	{Leo, Leo}:                 {70, []string{"Drama", "Romance", "Creativity"}, "Spotlight competition", "Share the stage"},
	{Leo, Sagittarius}:         {90, []string{"Adventure", "Generosity", "Fun"}, "Over-promising", "Ground big dreams in reality"},
	{Taurus, Taurus}:           {85, []string{"Stability", "Loyalty", "Comfort"}, "Stubbornness", "Practice flexibility"},
	{Taurus, Virgo}:            {90, []string{"Practicality", "Dedication", "Trust"}, "Perfectionism", "Embrace imperfection together"},
	{Taurus, Capricorn}:        {95, []string{"Security", "Goals", "Loyalty"}, "Workaholism", "Schedule quality time"},
	{Gemini, Gemini}:           {70, []string{"Communication", "Variety", "Wit"}, "Inconsistency", "Anchor each other"},
	{Gemini, Libra}:            {90, []string{"Conversation", "Social life", "Ideas"}, "Indecision", "Take turns deciding"},
	{Gemini, Aquarius}:         {85, []string{"Innovation", "Freedom", "Intellect"}, "Detachment", "Check in emotionally"},
	{Cancer, Cancer}:           {75, []string{"Nurturing", "Home", "Emotion"}, "Mood swings", "Create safe communication"},
	{Cancer, Scorpio}:          {95, []string{"Depth", "Intuition", "Loyalty"}, "Intensity", "Give space when needed"},
	{Cancer, Pisces}:           {90, []string{"Empathy", "Romance", "Care"}, "Over-sensitivity", "Build practical foundations"},
	{Virgo, Virgo}:             {70, []string{"Organization", "Health", "Growth"}, "Critical nature", "Focus on appreciation"},
	{Virgo, Capricorn}:         {90, []string{"Goals", "Practicality", "Trust"}, "All work", "Schedule fun"},
	{Libra, Libra}:             {75, []string{"Harmony", "Beauty", "Romance"}, "Conflict avoidance", "Address issues directly"},
	{Libra, Aquarius}:          {85, []string{"Ideas", "Social cause", "Friendship"}, "Detachment", "Nurture intimacy"},
	{Scorpio, Scorpio}:         {80, []string{"Intensity", "Loyalty", "Transformation"}, "Power struggles", "Build trust slowly"},
	{Scorpio, Pisces}:          {95, []string{"Intuition", "Depth", "Devotion"}, "Escapism", "Stay grounded together"},
	{Sagittarius, Sagittarius}: {85, []string{"Adventure", "Philosophy", "Freedom"}, "Restlessness", "Create home base"},
	{Sagittarius, Aquarius}:    {90, []string{"Independence", "Ideas", "Growth"}, "Commitment", "Define your own rules"},
	{Capricorn, Capricorn}:     {80, []string{"Ambition", "Stability", "Legacy"}, "Workaholism", "Prioritize relationship"},
	{Aquarius, Aquarius}:       {75, []string{"Innovation", "Freedom", "Ideals"}, "Emotional distance", "Practice vulnerability"},
	{Pisces, Pisces}:           {70, []string{"Creativity", "Spirituality", "Romance"}, "Reality avoidance", "Support each other's dreams practically"},
}

// Compatibility looks the pair up in either order and otherwise scores it by
// element.
func Compatibility(a, b Sign) CompatibilityReading {
	if r, ok := compatibilityTable[signPair{a, b}]; ok {
		return copyReading(r)
	}
	if r, ok := compatibilityTable[signPair{b, a}]; ok {
		return copyReading(r)
	}
	return CompatibilityReading{
		Score:     elementScore(a.Element(), b.Element()),
		Strengths: []string{"Growth potential", "Learning from differences", "Balance"},
		Friction:  "Different approaches to life",
		Advice:    "Appreciate what each brings to the relationship",
	}
}

func copyReading(r CompatibilityReading) CompatibilityReading {
	r.Strengths = append([]string(nil), r.Strengths...)
	return r
}

func elementScore(e1, e2 Element) int {
	pair := func(x, y Element) bool { return (e1 == x && e2 == y) || (e1 == y && e2 == x) }
	switch {
	case e1 == e2:
		return 75
	case pair(Fire, Air), pair(Earth, Water):
		return 80
	case pair(Fire, Water):
		return 50
	case pair(Earth, Air):
		return 55
	default:
		return 60
	}
}
