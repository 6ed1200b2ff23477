package systems

import (
	"github.com/pthm-cable/botz/components"
	"github.com/pthm-cable/botz/config"
)

// Clock is the cyclic actuation clock driving muscle timing.
// Time is always in [0, config.CyclePeriod).
type Clock struct {
	Time   int32
	Paused bool
}

// Advance moves the clock by speed ticks (either sign) and wraps it back into
// range. Does nothing while paused.
func (c *Clock) Advance(speed int32) {
	if c.Paused {
		return
	}
	c.Time = WrapCycle(c.Time + speed)
}

// WrapCycle folds t into [0, CyclePeriod) by repeated addition or subtraction of
// the period.
func WrapCycle(t int32) int32 {
	for t >= config.CyclePeriod {
		t -= config.CyclePeriod
	}
	for t < 0 {
		t += config.CyclePeriod
	}
	return t
}

// Pulse returns the link's actuation offset at cycle time t: a triangular pulse
// centred on PushTiming with half-width PushSpan, scaled by rest length. Windows
// that cross either end of the cycle wrap around so the pulse has no seam.
func Pulse(l *components.Link, t int32) float64 {
	if l.PushSpan <= 0 {
		return 0
	}
	const period = config.CyclePeriod
	lo := l.PushTiming - l.PushSpan
	hi := l.PushTiming + l.PushSpan

	// The three windows are checked independently; the last match wins.
	push := 0.0
	if t >= lo && t < hi {
		push = pulseAt(l, l.PushTiming, t)
	}
	if hi > period && t < hi-period {
		push = pulseAt(l, l.PushTiming-period, t)
	}
	if lo < 0 && t > lo+period {
		push = pulseAt(l, l.PushTiming+period, t)
	}
	return push
}

func pulseAt(l *components.Link, center, t int32) float64 {
	d := center - t
	if d < 0 {
		d = -d
	}
	push := l.PushStrength * (1.0 - float64(d)/float64(l.PushSpan))
	return (push / 30.0) * l.RestLength
}
