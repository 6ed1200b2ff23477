package systems

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/cespare/xxhash/v2"

	"github.com/pthm-cable/botz/components"
)

// Graph owns the vertex and link slots.
//
// Vertex ids are slot indices and stay stable for as long as the vertex is used:
// deletion tombstones the slot and insertion reuses the first free one. Links are
// only referenced by value, so deleting one shifts the ids of those after it.
//
// Every topology change marks the triangle cache dirty.
type Graph struct {
	Vertices []components.Vertex
	Links    []components.Link

	// DefaultTension is applied to links created with AddLink.
	DefaultTension float64

	triangles *TriangleCache
}

// NewGraph creates an empty graph.
func NewGraph(defaultTension float64) *Graph {
	return &Graph{
		DefaultTension: defaultTension,
		triangles:      NewTriangleCache(),
	}
}

// Replace swaps in a complete vertex and link set, as produced by a loader.
func (g *Graph) Replace(vertices []components.Vertex, links []components.Link) {
	g.Vertices = vertices
	g.Links = links
	g.triangles.Invalidate()
}

// Valid reports whether id names a used vertex.
func (g *Graph) Valid(id int) bool {
	return id >= 0 && id < len(g.Vertices) && g.Vertices[id].Used
}

// UsedCount returns the number of live vertices.
func (g *Graph) UsedCount() int {
	n := 0
	for i := range g.Vertices {
		if g.Vertices[i].Used {
			n++
		}
	}
	return n
}

// AddVertex places a new vertex, reoccupying the first tombstoned slot if any.
func (g *Graph) AddVertex(pos, vel mgl64.Vec2, radius uint32, spin float64, phase uint8) int {
	v := components.Vertex{
		Used:   true,
		Pos:    pos,
		Vel:    vel,
		Spin:   spin,
		Radius: radius,
		Phase:  phase,
	}
	v.RefreshWheel()

	g.triangles.Invalidate()
	for i := range g.Vertices {
		if !g.Vertices[i].Used {
			g.Vertices[i] = v
			return i
		}
	}
	g.Vertices = append(g.Vertices, v)
	return len(g.Vertices) - 1
}

// DeleteVertex removes every link touching id and tombstones its slot.
// No other vertex is renumbered.
func (g *Graph) DeleteVertex(id int) {
	if id < 0 || id >= len(g.Vertices) {
		return
	}
	kept := g.Links[:0]
	for _, l := range g.Links {
		if !l.Touches(id) {
			kept = append(kept, l)
		}
	}
	g.Links = kept
	g.Vertices[id].Used = false
	g.Vertices[id].Selected = false
	g.triangles.Invalidate()
}

// LinkBetween returns the id of the link joining a and b, or -1.
func (g *Graph) LinkBetween(a, b int) int {
	for i := range g.Links {
		if g.Links[i].Connects(a, b) {
			return i
		}
	}
	return -1
}

// AddLink joins src and dest with a link whose rest length is their current
// distance. It reports false, adding nothing, if src == dest, either id is not a
// used vertex, or the pair is already linked in either direction.
func (g *Graph) AddLink(src, dest int) (int, bool) {
	if src == dest || !g.Valid(src) || !g.Valid(dest) {
		return -1, false
	}
	if g.LinkBetween(src, dest) >= 0 {
		return -1, false
	}

	a, b := g.Vertices[src].Pos, g.Vertices[dest].Pos
	g.Links = append(g.Links, components.Link{
		Src:        src,
		Dest:       dest,
		RestLength: distance(a, b),
		Tension:    g.DefaultTension,
		PushTiming: components.DefaultPushTiming,
		PushSpan:   components.DefaultPushSpan,
		Mid:        midpoint(a, b),
	})
	g.triangles.Invalidate()
	return len(g.Links) - 1, true
}

// DeleteLink removes the link outright. Later link ids shift down by one.
func (g *Graph) DeleteLink(id int) {
	if id < 0 || id >= len(g.Links) {
		return
	}
	g.Links = append(g.Links[:id], g.Links[id+1:]...)
	g.triangles.Invalidate()
}

// SetWheel changes a vertex's contact radius and resets its heading.
func (g *Graph) SetWheel(id int, radius uint32) {
	if !g.Valid(id) {
		return
	}
	v := &g.Vertices[id]
	v.Radius = radius
	v.RefreshWheel()
	v.Heading = 0
}

// ResetLink bakes the current endpoint distance in as the link's rest length.
func (g *Graph) ResetLink(id int) {
	if id < 0 || id >= len(g.Links) {
		return
	}
	l := &g.Links[id]
	l.RestLength = distance(g.Vertices[l.Src].Pos, g.Vertices[l.Dest].Pos)
}

// ResetAllLinks resets every link's rest length to the current pose.
func (g *Graph) ResetAllLinks() {
	for i := range g.Links {
		g.ResetLink(i)
	}
}

// ResetConnectedLinks resets only links with at least one selected endpoint.
func (g *Graph) ResetConnectedLinks() {
	for i := range g.Links {
		l := &g.Links[i]
		if g.selected(l.Src) || g.selected(l.Dest) {
			g.ResetLink(i)
		}
	}
}

func (g *Graph) selected(id int) bool {
	return g.Valid(id) && g.Vertices[id].Selected
}

// UpdateMidpoints refreshes each link's cached midpoint.
func (g *Graph) UpdateMidpoints() {
	for i := range g.Links {
		l := &g.Links[i]
		l.Mid = midpoint(g.Vertices[l.Src].Pos, g.Vertices[l.Dest].Pos)
	}
}

// Triangles returns the 3-cycles of the link graph, recomputing them only if the
// topology changed since the last call.
func (g *Graph) Triangles() []Triangle {
	if g.triangles.Dirty() {
		g.triangles.Rebuild(g.Vertices, g.Links)
	}
	return g.triangles.List()
}

// TriangleCache exposes the cache for inspection without forcing a rebuild.
func (g *Graph) TriangleCache() *TriangleCache {
	return g.triangles
}

// Centroid returns the mean position of the used vertices.
func (g *Graph) Centroid() mgl64.Vec2 {
	var sum mgl64.Vec2
	n := 0
	for i := range g.Vertices {
		if g.Vertices[i].Used {
			sum = sum.Add(g.Vertices[i].Pos)
			n++
		}
	}
	if n == 0 {
		return mgl64.Vec2{}
	}
	return sum.Mul(1 / float64(n))
}

// Fingerprint hashes the persisted state of every used vertex and every link.
// Vertices are numbered densely, so a graph and its tombstone-free reload hash
// the same. Wheel heading is cosmetic and not included.
func (g *Graph) Fingerprint() uint64 {
	buf := make([]byte, 0, len(g.Vertices)*52+len(g.Links)*40)
	f := func(x float64) {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	}
	dense := make([]uint32, len(g.Vertices))
	n := uint32(0)
	for i := range g.Vertices {
		v := &g.Vertices[i]
		if !v.Used {
			continue
		}
		dense[i] = n
		buf = binary.LittleEndian.AppendUint32(buf, n)
		n++
		f(v.Pos[0])
		f(v.Pos[1])
		f(v.Vel[0])
		f(v.Vel[1])
		f(v.Spin)
		buf = binary.LittleEndian.AppendUint32(buf, v.Radius)
	}
	for i := range g.Links {
		l := &g.Links[i]
		if !g.Valid(l.Src) || !g.Valid(l.Dest) {
			continue
		}
		buf = binary.LittleEndian.AppendUint32(buf, dense[l.Src])
		buf = binary.LittleEndian.AppendUint32(buf, dense[l.Dest])
		f(l.RestLength)
		f(l.Tension)
		f(l.Push)
	}
	return xxhash.Sum64(buf)
}

func distance(a, b mgl64.Vec2) float64 {
	return length(b.Sub(a))
}

// length matches sqrt(x*x + y*y) bit for bit; mgl64's Len uses Hypot.
func length(v mgl64.Vec2) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1])
}

func midpoint(src, dest mgl64.Vec2) mgl64.Vec2 {
	return dest.Add(src.Sub(dest).Mul(0.5))
}
