package game

import (
	"log/slog"

	"github.com/pthm-cable/botz/systems"
	"github.com/pthm-cable/botz/telemetry"
)

// Update runs stepsPerUpdate ticks while simulating. In editing mode the scene
// is frozen and Update does nothing.
func (g *Game) Update() {
	g.UpdateUntil(0)
}

// UpdateUntil is Update, but stops early rather than step past tick limit.
// A limit of 0 means no limit.
func (g *Game) UpdateUntil(limit int32) {
	if g.mode != ModeSimulating {
		return
	}
	n := g.stepsPerUpdate
	if limit > 0 {
		n = min(n, int(limit-g.tick))
	}
	for i := 0; i < n; i++ {
		g.Step()
	}
}

// Step advances the scene by exactly one tick regardless of mode.
func (g *Game) Step() {
	pc := g.perfCollector
	pc.StartTick()

	ctx := g.stepContext()
	report := g.physics.Update(g.graph, &ctx)

	// Rebuilds only after a topology change.
	pc.StartPhase(telemetry.PhaseTriangles)
	g.graph.Triangles()

	g.tick++

	pc.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(report)
	if report.Reversals > 0 {
		slog.Debug("clock reversed", "tick", g.tick, "clock_speed", g.env.ClockSpeed, "drive", g.autoReverse.State.String())
	}
	g.flushTelemetry()

	pc.EndTick()
}

// stepPhases maps physics stages onto perf phases.
var stepPhases = [...]telemetry.Phase{
	systems.StepClock:     telemetry.PhaseClock,
	systems.StepRelax:     telemetry.PhaseRelax,
	systems.StepIntegrate: telemetry.PhaseIntegrate,
	systems.StepMidpoints: telemetry.PhaseMidpoints,
}

func (g *Game) stepContext() systems.StepContext {
	return systems.StepContext{
		Env:         &g.env,
		Walls:       g.walls,
		Arena:       g.arena,
		AutoReverse: &g.autoReverse,
		Dragged:     g.dragged,
		Gust:        g.wind.Gust(g.tick),
	}
}

// SetClockPaused pauses or resumes the actuation clock. While paused, physics
// still runs but links relax toward their bare rest length.
func (g *Game) SetClockPaused(paused bool) {
	g.clock.Paused = paused
}
