package content

import "strings"

// Sign is a star sign. NotSure is the universal bucket used for users who
// did not pick one and for any unrecognized value.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
	NotSure     Sign = "NotSure"
)

// ZodiacSigns are the twelve real signs in calendar order.
var ZodiacSigns = []Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// AllSigns is ZodiacSigns plus NotSure.
var AllSigns = append(append([]Sign{}, ZodiacSigns...), NotSure)

// ParseSign matches s case-insensitively. Anything unknown maps to NotSure.
func ParseSign(s string) Sign {
	s = strings.TrimSpace(s)
	for _, sign := range AllSigns {
		if strings.EqualFold(s, string(sign)) {
			return sign
		}
	}
	return NotSure
}

// DisplayName is the name shown to users; NotSure reads as "Universal".
func (s Sign) DisplayName() string {
	if s == NotSure {
		return "Universal"
	}
	return string(s)
}

// Element groups signs for compatibility.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

// Element returns the sign's element. NotSure counts as water, matching the
// fallback ordering of the element checks.
func (s Sign) Element() Element {
	switch s {
	case Aries, Leo, Sagittarius:
		return Fire
	case Taurus, Virgo, Capricorn:
		return Earth
	case Gemini, Libra, Aquarius:
		return Air
	default:
		return Water
	}
}
