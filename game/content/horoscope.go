package content

import "github.com/stardust-app/server/game/seed"

// DailyHoroscope is derived purely from (sign, date).
type DailyHoroscope struct {
	Sign          Sign      `json:"-"`
	DisplaySign   string    `json:"sign"`
	Date          seed.Date `json:"isoDate"`
	FormattedDate string    `json:"date"`
	Overall       string    `json:"overall"`
	Love          string    `json:"love"`
	Career        string    `json:"career"`
	Wellness      string    `json:"wellness"`
	LuckyNumber   int       `json:"luckyNumber"`
	LuckyColor    string    `json:"luckyColor"`
	Mood          string    `json:"mood"`
	Compatibility Sign      `json:"compatibility"`
}

type readings struct {
	overall  []string
	love     []string
	career   []string
	wellness []string
	moods    []string
}

var horoscopeReadings = map[Sign]readings{
	Aries: {
		overall: []string{
			"The stars ignite your pioneering spirit today. Bold moves are favored, but temper your impulses with wisdom. A new beginning is on the horizon.",
			"Mars energizes your sector of action. Your competitive edge is sharp, making this an excellent day to tackle challenges head-on.",
			"Your natural leadership shines through. Others look to you for guidance. Trust your instincts and take the initiative.",
		},
		love:     []string{"Passion runs high. Express your feelings directly.", "A spontaneous gesture could spark romance.", "Your confidence attracts admirers."},
		career:   []string{"Take the lead on a new project.", "Your courage impresses superiors.", "Bold ideas get noticed today."},
		wellness: []string{"Channel energy into physical activity.", "Avoid burnout by pacing yourself.", "Morning workouts are especially effective."},
		moods:    []string{"Energized", "Bold", "Passionate", "Driven"},
	},
	Taurus: {
		overall: []string{
			"Venus blesses your practical endeavors. Financial matters look promising, and your steady approach wins the day. Comfort and stability are your allies.",
			"Your patience is rewarded today. What you've been building slowly starts to show results. Trust the process.",
			"Sensory pleasures bring joy. Take time to appreciate beauty around you. Your grounded energy attracts abundance.",
		},
		love:     []string{"Loyalty deepens existing bonds.", "Show love through acts of service.", "A stable connection brings comfort."},
		career:   []string{"Financial planning pays off.", "Your reliability is recognized.", "Patience with slow progress is key."},
		wellness: []string{"Indulge in self-care rituals.", "Nature walks restore balance.", "Nourishing foods support your energy."},
		moods:    []string{"Grounded", "Content", "Determined", "Peaceful"},
	},
	Gemini: {
		overall: []string{
			"Mercury activates your communication sector. Words flow easily, and mental connections spark. Share your ideas freely.",
			"Your curiosity leads to fascinating discoveries. Stay open to new information and unexpected conversations.",
			"Versatility is your superpower today. Juggle multiple interests without losing focus. Your adaptability impresses others.",
		},
		love:     []string{"Meaningful conversations deepen bonds.", "Flirtation comes naturally.", "A witty exchange could spark interest."},
		career:   []string{"Networking opportunities abound.", "Your ideas gain traction.", "Written communication is favored."},
		wellness: []string{"Mental stimulation energizes you.", "Short breaks prevent restlessness.", "Try something new for fun."},
		moods:    []string{"Curious", "Chatty", "Inspired", "Playful"},
	},
	Cancer: {
		overall: []string{
			"The Moon nurtures your emotional world. Home and family matters take priority. Trust your intuitive hunches.",
			"Your protective instincts are heightened. Care for those you love, but don't forget self-nurturing.",
			"Emotional depth brings wisdom today. Your sensitivity is a gift that helps you understand others.",
		},
		love:     []string{"Emotional intimacy deepens.", "Nurturing gestures strengthen bonds.", "Home-based dates feel magical."},
		career:   []string{"Trust your gut in decisions.", "Collaborative projects flow well.", "Your empathy helps team dynamics."},
		wellness: []string{"Prioritize emotional well-being.", "Water activities soothe your soul.", "Rest when your body asks."},
		moods:    []string{"Intuitive", "Nurturing", "Reflective", "Cozy"},
	},
	Leo: {
		overall: []string{
			"The Sun illuminates your creative expression. Your natural magnetism draws attention. Shine brightly and inspire others.",
			"Your generous spirit touches hearts today. Lead with warmth and watch others follow.",
			"Creative ventures are blessed. Express yourself boldly. Your authentic self-expression captivates audiences.",
		},
		love:     []string{"Romance takes center stage.", "Grand gestures win hearts.", "Your warmth attracts admirers."},
		career:   []string{"Leadership roles suit you.", "Creative projects flourish.", "Recognition for your efforts comes."},
		wellness: []string{"Joy boosts your vitality.", "Express yourself through movement.", "Playful activities energize you."},
		moods:    []string{"Radiant", "Confident", "Generous", "Creative"},
	},
	Virgo: {
		overall: []string{
			"Mercury sharpens your analytical mind. Details that others miss are clear to you. Your practical solutions save the day.",
			"Organization brings peace of mind. Tackle your to-do list with precision and feel the satisfaction of completion.",
			"Your helpful nature is appreciated. Offer your expertise where needed, but also accept help graciously.",
		},
		love:     []string{"Small gestures mean everything.", "Practical support shows love.", "Details in dating matter."},
		career:   []string{"Your precision is valuable.", "Problem-solving skills shine.", "Organization leads to success."},
		wellness: []string{"Healthy routines pay off.", "Mind-body practices help.", "Don't overthink; just start."},
		moods:    []string{"Analytical", "Helpful", "Focused", "Efficient"},
	},
	Libra: {
		overall: []string{
			"Venus harmonizes your relationships. Balance and beauty guide your day. Diplomatic skills are at their peak.",
			"Partnerships bring opportunities. Collaboration is favored over solo efforts. Seek win-win solutions.",
			"Aesthetic pleasures elevate your mood. Surround yourself with beauty and let harmony flow into all areas.",
		},
		love:     []string{"Harmony in relationships grows.", "Partnership energy is strong.", "Romantic gestures are well-received."},
		career:   []string{"Negotiations go smoothly.", "Team projects thrive.", "Your fairness is valued."},
		wellness: []string{"Balance activity with rest.", "Beautiful surroundings heal.", "Social connections nurture you."},
		moods:    []string{"Harmonious", "Charming", "Diplomatic", "Peaceful"},
	},
	Scorpio: {
		overall: []string{
			"Pluto intensifies your transformative powers. Deep insights emerge. What needs to end makes way for rebirth.",
			"Your investigative nature uncovers truths. Trust your ability to see beneath the surface.",
			"Emotional intensity fuels your passion. Channel this powerful energy into meaningful pursuits.",
		},
		love:     []string{"Deep connections are favored.", "Intimacy reaches new levels.", "Trust builds through vulnerability."},
		career:   []string{"Research yields discoveries.", "Strategic thinking pays off.", "Power dynamics shift in your favor."},
		wellness: []string{"Release what no longer serves.", "Emotional processing heals.", "Regenerative rest is essential."},
		moods:    []string{"Intense", "Perceptive", "Transforming", "Powerful"},
	},
	Sagittarius: {
		overall: []string{
			"Jupiter expands your horizons. Adventure calls and optimism soars. Big-picture thinking opens doors.",
			"Your philosophical nature seeks meaning. Explore new ideas and let curiosity guide your journey.",
			"Freedom and exploration are themes. Break free from limitations and embrace the unknown.",
		},
		love:     []string{"Adventure sparks romance.", "Honesty strengthens bonds.", "Shared philosophies connect hearts."},
		career:   []string{"Big ideas get attention.", "International matters favor you.", "Teaching opportunities arise."},
		wellness: []string{"Outdoor activities energize.", "Mental expansion through learning.", "Optimism boosts immunity."},
		moods:    []string{"Adventurous", "Optimistic", "Free-spirited", "Philosophical"},
	},
	Capricorn: {
		overall: []string{
			"Saturn rewards your discipline. Long-term goals advance. Your ambition and patience combine for success.",
			"Structure supports your progress. Build foundations that will last. Recognition for your efforts approaches.",
			"Your responsible nature earns respect. Leadership opportunities emerge from your steady reliability.",
		},
		love:     []string{"Commitment deepens bonds.", "Traditional gestures appreciated.", "Stability attracts partners."},
		career:   []string{"Ambitions materialize.", "Authority figures support you.", "Long-term plans succeed."},
		wellness: []string{"Discipline in health pays off.", "Bone and joint care important.", "Rest supports productivity."},
		moods:    []string{"Ambitious", "Disciplined", "Responsible", "Determined"},
	},
	Aquarius: {
		overall: []string{
			"Uranus sparks your innovative thinking. Revolutionary ideas emerge. Your unique perspective is needed.",
			"Community connections energize you. Group activities and humanitarian causes call to your heart.",
			"Your originality sets you apart. Embrace your eccentricities, they're your greatest assets.",
		},
		love:     []string{"Friendship deepens into more.", "Intellectual connection matters.", "Freedom within partnership."},
		career:   []string{"Innovation is rewarded.", "Technology brings opportunities.", "Group projects succeed."},
		wellness: []string{"Social activities energize.", "Mental health prioritized.", "Unusual methods work best."},
		moods:    []string{"Innovative", "Humanitarian", "Independent", "Visionary"},
	},
	Pisces: {
		overall: []string{
			"Neptune heightens your intuition. Dreams carry messages. Your compassionate nature heals those around you.",
			"Creative inspiration flows abundantly. Artistic pursuits are blessed. Trust your imagination.",
			"Spiritual connections deepen. The veil between worlds is thin. Pay attention to signs and synchronicities.",
		},
		love:     []string{"Soul connections intensify.", "Romantic dreams manifest.", "Compassion deepens bonds."},
		career:   []string{"Creative projects flourish.", "Intuition guides decisions.", "Helping professions thrive."},
		wellness: []string{"Water heals your spirit.", "Rest and dreams restore.", "Boundaries protect energy."},
		moods:    []string{"Dreamy", "Intuitive", "Compassionate", "Creative"},
	},
	NotSure: {
		overall: []string{
			"The cosmos holds unique gifts for you today. Stay open to the unexpected and trust your inner wisdom.",
			"Universal energies support your journey. Whatever sign you are, today favors authentic self-expression.",
			"The stars align to support your growth. Listen to your heart and let intuition guide your path.",
		},
		love:     []string{"Open your heart to possibilities.", "Authentic connection awaits.", "Love finds you unexpectedly."},
		career:   []string{"Your unique talents shine.", "Opportunities appear when ready.", "Trust your path."},
		wellness: []string{"Listen to your body's wisdom.", "Balance is key today.", "Self-care nurtures growth."},
		moods:    []string{"Open", "Curious", "Receptive", "Balanced"},
	},
}

// LuckyColors is the lucky color pool.
var LuckyColors = []string{"Purple", "Gold", "Silver", "Blue", "Green", "Rose", "White", "Turquoise", "Coral", "Violet"}

// Per-field salts for GenerateDailyHoroscope.
const (
	saltOverall = iota
	saltLove
	saltCareer
	saltWellness
	saltMood
	saltColor
	saltCompat
	saltLuckyNumber
)

func pick(list []string, d seed.Date, salt int) string {
	return list[seed.Index(d, salt, len(list))]
}

// GenerateDailyHoroscope builds the full horoscope for sign on d. Every field
// uses its own salt; unknown signs read from the NotSure bucket.
func GenerateDailyHoroscope(sign Sign, d seed.Date) DailyHoroscope {
	sign = ParseSign(string(sign))
	r := horoscopeReadings[sign]
	return DailyHoroscope{
		Sign:          sign,
		DisplaySign:   sign.DisplayName(),
		Date:          d,
		FormattedDate: d.Time().Format("Monday, January 2"),
		Overall:       pick(r.overall, d, saltOverall),
		Love:          pick(r.love, d, saltLove),
		Career:        pick(r.career, d, saltCareer),
		Wellness:      pick(r.wellness, d, saltWellness),
		Mood:          pick(r.moods, d, saltMood),
		LuckyColor:    pick(LuckyColors, d, saltColor),
		Compatibility: ZodiacSigns[seed.Index(d, saltCompat, len(ZodiacSigns))],
		LuckyNumber:   seed.Index(d, saltLuckyNumber, 99) + 1,
	}
}
