package domain

import "github.com/jonboulle/clockwork"

// clock stamps report envelopes. Tests freeze it via SetClock so serialized
// output is reproducible.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by SerializeReport. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
