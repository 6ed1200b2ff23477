package telemetry

import (
	"math"

	"github.com/pthm-cable/botz/systems"
)

// Collector accumulates step events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for the current window
	wallContacts int
	reversals    int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordStep adds one tick's events to the current window.
func (c *Collector) RecordStep(r systems.StepReport) {
	c.wallContacts += r.WallContacts
	c.reversals += r.Reversals
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush samples the graph and clock, returns the window's stats, and starts a
// new window at currentTick.
func (c *Collector) Flush(currentTick int32, g *systems.Graph, clock *systems.Clock, clockSpeed int32) WindowStats {
	var speeds []float64
	for i := range g.Vertices {
		v := &g.Vertices[i]
		if v.Used {
			speeds = append(speeds, math.Sqrt(v.Vel[0]*v.Vel[0]+v.Vel[1]*v.Vel[1]))
		}
	}
	motion := ComputeMotionStats(speeds)
	centroid := g.Centroid()

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Vertices:  len(speeds),
		Links:     len(g.Links),
		Triangles: len(g.Triangles()),

		CycleTime:  clock.Time,
		ClockSpeed: clockSpeed,

		CentroidX: centroid[0],
		CentroidY: centroid[1],

		SpeedMean:     motion.Mean,
		SpeedStd:      motion.Std,
		SpeedMax:      motion.Max,
		KineticEnergy: motion.KineticEnergy,

		WallContacts: c.wallContacts,
		Reversals:    c.reversals,
	}

	c.windowStartTick = currentTick
	c.wallContacts = 0
	c.reversals = 0

	return stats
}

// Restart discards the current window's counters and starts a new window at tick.
func (c *Collector) Restart(tick int32) {
	c.windowStartTick = tick
	c.wallContacts = 0
	c.reversals = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
