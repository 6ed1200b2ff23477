// Package systems contains the simulation engine: the vertex/link graph, the
// actuation clock, and the per-tick stepper.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/botz/components"
)

// StepContext is everything outside the graph that one tick reads.
// Env is a pointer because auto-reverse flips Env.ClockSpeed.
type StepContext struct {
	Env         *components.Environment
	Walls       components.Walls
	Arena       components.Arena
	AutoReverse *components.AutoReverse

	// Dragged is the vertex the editor is positioning, or components.NoVertex.
	Dragged int

	// Gust is extra wind added to Env.LeftWind this tick.
	Gust float64
}

// StepReport counts the events of one tick.
type StepReport struct {
	WallContacts int
	Reversals    int
}

// Add accumulates another report into r.
func (r *StepReport) Add(o StepReport) {
	r.WallContacts += o.WallContacts
	r.Reversals += o.Reversals
}

// StepPhase names a stage of PhysicsSystem.Update.
type StepPhase uint8

// Stages of a tick, in execution order.
const (
	StepClock StepPhase = iota
	StepRelax
	StepIntegrate
	StepMidpoints
)

// PhysicsSystem advances the graph by one tick.
type PhysicsSystem struct {
	Clock *Clock

	// OnPhase, if set, is called as each stage of Update begins.
	OnPhase func(StepPhase)
}

// NewPhysicsSystem creates a physics system driven by clock.
func NewPhysicsSystem(clock *Clock) *PhysicsSystem {
	return &PhysicsSystem{Clock: clock}
}

// Update runs a full tick: clock, relaxation, integration, midpoints.
func (s *PhysicsSystem) Update(g *Graph, ctx *StepContext) StepReport {
	s.mark(StepClock)
	s.Clock.Advance(ctx.Env.ClockSpeed)
	s.mark(StepRelax)
	s.Relax(g)
	s.mark(StepIntegrate)
	report := s.Integrate(g, ctx)
	s.mark(StepMidpoints)
	g.UpdateMidpoints()
	return report
}

func (s *PhysicsSystem) mark(p StepPhase) {
	if s.OnPhase != nil {
		s.OnPhase(p)
	}
}

// Relax makes a single Gauss-Seidel sweep over the links in storage order,
// nudging both endpoint velocities toward each link's target length. Later links
// see the velocity changes made by earlier ones, so order matters for graphs
// with cycles.
func (s *PhysicsSystem) Relax(g *Graph) {
	t := s.Clock.Time
	verts := g.Vertices
	for i := range g.Links {
		l := &g.Links[i]
		l.Push = Pulse(l, t)

		target := l.RestLength
		if !s.Clock.Paused {
			target += l.Push
		}

		a, b := &verts[l.Src], &verts[l.Dest]
		d := b.Pos.Add(b.Vel).Sub(a.Pos.Add(a.Vel))
		leng := length(d)
		if leng == 0 {
			continue
		}

		corr := d.Mul((leng - target) / leng).Mul(0.5 * l.Tension)
		a.Vel = a.Vel.Add(corr)
		b.Vel = b.Vel.Sub(corr)
	}
}

// Integrate applies environmental forces, moves every used vertex, resolves wall
// collisions and spins wheels.
func (s *PhysicsSystem) Integrate(g *Graph, ctx *StepContext) StepReport {
	var report StepReport
	env := ctx.Env
	drag := 1.0 - env.Atmosphere

	for i := range g.Vertices {
		v := &g.Vertices[i]
		if !v.Used {
			continue
		}

		v.Vel[1] -= env.Gravity * 1.5
		if v.JustReleased {
			v.Vel = mgl64.Vec2{}
			v.JustReleased = false
		}
		v.Vel[0] += (env.LeftWind + ctx.Gust) / 10.0
		v.Vel[0] *= drag
		v.Vel[1] *= drag

		if i == ctx.Dragged && v.Selected {
			v.Vel = mgl64.Vec2{}
		}

		v.LastPos = v.Pos
		v.Pos = v.Pos.Add(v.Vel)
		v.RefreshWheel()

		report.Add(collideWalls(v, ctx))

		v.Heading = wrapDegrees(v.Heading + v.Spin)
	}
	return report
}

// wrapDegrees folds h into [0, 360).
func wrapDegrees(h float64) float64 {
	if h >= 0 && h < 360 {
		return h
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h
}
