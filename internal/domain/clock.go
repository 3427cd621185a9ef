package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level time source for document stamps.
// Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Today returns the current local calendar date as YYYY-MM-DD.
func Today() string {
	return clock.Now().Format(time.DateOnly)
}
