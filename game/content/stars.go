package content

import "github.com/stardust-app/server/game/seed"

// Star is one point of the background star field, in normalized coordinates.
type Star struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// MaxStars caps StarField.
const MaxStars = 500

// StarField lays out n stars for d. Star i uses salts 3i+1..3i+3 so layouts
// are stable per date.
func StarField(d seed.Date, n int) []Star {
	if n < 0 {
		n = 0
	}
	if n > MaxStars {
		n = MaxStars
	}
	stars := make([]Star, n)
	for i := range stars {
		base := i * 3
		sz := seed.Seed(d, base+3)
		stars[i] = Star{
			X:       seed.Seed(d, base+1),
			Y:       seed.Seed(d, base+2),
			Size:    1 + sz*2,
			Opacity: 0.3 + sz*0.7,
		}
	}
	return stars
}
