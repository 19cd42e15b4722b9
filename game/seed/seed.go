package seed

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDate is returned when a calendar date is not in YYYY-MM-DD form
// or does not exist.
var ErrInvalidDate = errors.New("seed: invalid date")

const layout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) Date {
	return FromTime(now.UTC())
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(layout)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other
// (negative when other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(math.Round(other.Time().Sub(d.Time()).Hours() / 24))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// BaseSeed encodes a date as year*10000 + month*100 + day.
func BaseSeed(d Date) int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// Seed returns the pseudo-random value in [0,1) for (d, salt).
// The formula is frac(sin(BaseSeed(d)+salt) * 10000) and is shared with the
// mobile clients.
func Seed(d Date, salt int) float64 {
	return Value(BaseSeed(d) + salt)
}

// Value is the raw sine-hash for an already combined seed.
func Value(n int) float64 {
	x := math.Sin(float64(n)) * 10000
	r := x - math.Floor(x)
	if r >= 1 || r < 0 {
		return 0
	}
	return r
}

// Index maps Seed(d, salt) onto [0, n). n must be positive.
func Index(d Date, salt, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(Seed(d, salt) * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}
