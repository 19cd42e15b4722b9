package companion

import "github.com/stardust-app/server/game/seed"

// Stage is the companion's maturity level.
type Stage string

const (
	StageEgg       Stage = "Egg"
	StageHatchling Stage = "Hatchling"
	StageJunior    Stage = "Junior"
	StageAdult     Stage = "Adult"
	StageEvolved   Stage = "Evolved"
)

// Stages lists every stage in growth order.
var Stages = []Stage{StageEgg, StageHatchling, StageJunior, StageAdult, StageEvolved}

// Rank is the position of s in Stages, or -1 for an unknown stage.
func (s Stage) Rank() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// XP thresholds for the hatched stages.
const (
	JuniorXP  = 200
	AdultXP   = 500
	EvolvedXP = 1000
)

// FeedXP is the bonus for the once-per-day feed.
const FeedXP = 10

// ComputeStage derives the stage from total XP. An unhatched pet stays an Egg
// no matter how much XP it has.
func ComputeStage(xp int, hasHatched bool) Stage {
	switch {
	case !hasHatched:
		return StageEgg
	case xp >= EvolvedXP:
		return StageEvolved
	case xp >= AdultXP:
		return StageAdult
	case xp >= JuniorXP:
		return StageJunior
	default:
		return StageHatchling
	}
}

// NextStreak returns the streak after an interaction on today, given the date
// of the previous interaction. A repeat on the same day keeps the streak, the
// next calendar day extends it, and anything else (a gap, no previous
// interaction, a last date in the future) starts over at 1.
func NextStreak(streak int, last, today seed.Date) int {
	if last.IsZero() {
		return 1
	}
	switch last.DaysUntil(today) {
	case 0:
		if streak < 1 {
			return 1
		}
		return streak
	case 1:
		return streak + 1
	default:
		return 1
	}
}
