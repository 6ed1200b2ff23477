// Package components defines the plain data the simulation steps: vertices, links,
// and the environment they live in.
package components

import "github.com/go-gl/mathgl/mgl64"

// NoVertex marks the absence of a vertex id (no drag target, no selection).
const NoVertex = -1

// Vertex is a point mass, identified by its slot index in the graph.
type Vertex struct {
	Used bool // false = tombstoned slot, free for reuse

	Pos     mgl64.Vec2
	LastPos mgl64.Vec2 // position one tick prior
	Vel     mgl64.Vec2 // per-tick displacement
	Spin    float64    // wheel angular velocity, degrees per tick
	Heading float64    // wheel rotation, degrees in [0, 360)

	Radius uint32 // 0 = point, >0 = wheel contact radius
	Wheel  bool   // derived: Radius > 0

	JustReleased bool // zero velocity on the next tick
	Selected     bool
	Phase        uint8
}

// RefreshWheel re-derives Wheel from Radius.
func (v *Vertex) RefreshWheel() {
	v.Wheel = v.Radius > 0
}

// Link is a distance constraint between two vertices, optionally a muscle.
type Link struct {
	Src, Dest int

	RestLength float64
	Tension    float64

	// Actuation pulse inside the cyclic clock domain.
	PushTiming   int32
	PushSpan     int32
	PushStrength float64
	Push         float64 // last computed actuation offset

	LastLength float64
	Mid        mgl64.Vec2
}

// Default actuation window for newly drawn links.
const (
	DefaultPushTiming = 180
	DefaultPushSpan   = 40
)

// IsMuscle reports whether the link contributes an actuation pulse.
func (l *Link) IsMuscle() bool {
	return l.PushStrength != 0 && l.PushSpan > 0
}

// Connects reports whether the link joins a and b, in either direction.
func (l *Link) Connects(a, b int) bool {
	return (l.Src == a && l.Dest == b) || (l.Src == b && l.Dest == a)
}

// Touches reports whether id is one of the link's endpoints.
func (l *Link) Touches(id int) bool {
	return l.Src == id || l.Dest == id
}
