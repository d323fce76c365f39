package shared

import (
	"fmt"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Age renders how long ago t was according to clock, e.g. "5m ago".
func Age(t time.Time, clock Clock) string {
	if clock == nil {
		clock = RealClock{}
	}
	return FormatRelativeTimeFrom(t, clock.Now())
}

// FormatRelativeTimeFrom renders t relative to now. Future instants and
// anything under a minute read "now".
func FormatRelativeTimeFrom(t, now time.Time) string {
	d := now.Sub(t)
	const day = 24 * time.Hour

	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < day:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*day:
		return fmt.Sprintf("%dd ago", int(d/day))
	case d < 28*day:
		return fmt.Sprintf("%dw ago", int(d/(7*day)))
	case d < 365*day:
		return fmt.Sprintf("%dmo ago", max(1, int(d/(30*day))))
	default:
		return fmt.Sprintf("%dy ago", int(d/(365*day)))
	}
}
