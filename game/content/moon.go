package content

import (
	"math"
	"time"

	"github.com/stardust-app/server/game/seed"
)

// SynodicMonth is the mean lunar cycle in days.
const SynodicMonth = 29.53059

// referenceNewMoon is a known new moon (2024-01-11 00:00 UTC).
var referenceNewMoon = time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)

// MoonPhases holds the new and full moon of the cycle covering mid-month.
type MoonPhases struct {
	NewMoon  seed.Date `json:"newMoon"`
	FullMoon seed.Date `json:"fullMoon"`
}

// PhasesFor approximates the lunar cycle that contains the 15th of the month.
// The full moon may fall in the next month; callers filter by month.
func PhasesFor(year int, month time.Month) MoonPhases {
	day := 24 * time.Hour
	target := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
	daysSince := target.Sub(referenceNewMoon).Hours() / 24
	cycles := math.Floor(daysSince / SynodicMonth)

	cycleStart := referenceNewMoon.Add(time.Duration(cycles * SynodicMonth * float64(day)))
	fullMoon := cycleStart.Add(time.Duration(SynodicMonth / 2 * float64(day)))
	return MoonPhases{
		NewMoon:  seed.FromTime(cycleStart.UTC()),
		FullMoon: seed.FromTime(fullMoon.UTC()),
	}
}
