package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/botz/components"
)

// hitRadius is the half-size of the square pick box around vertices and link
// midpoints.
const hitRadius = 12.0

// HitTest returns the first used vertex whose pick box contains (x, y), or
// failing that the first link whose midpoint box does. The miss value for each
// is components.NoVertex and -1.
func (g *Game) HitTest(x, y float64) (vertex, link int) {
	for i := range g.graph.Vertices {
		v := &g.graph.Vertices[i]
		if v.Used && inBox(v.Pos, x, y) {
			return i, -1
		}
	}
	for i := range g.graph.Links {
		if inBox(g.graph.Links[i].Mid, x, y) {
			return components.NoVertex, i
		}
	}
	return components.NoVertex, -1
}

func inBox(c mgl64.Vec2, x, y float64) bool {
	return x > c[0]-hitRadius && x < c[0]+hitRadius &&
		y > c[1]-hitRadius && y < c[1]+hitRadius
}

// SetMode switches between editing and simulating. Any selection, drag or
// chain in progress is dropped.
func (g *Game) SetMode(m Mode) {
	g.mode = m
	g.resetEditor()
}

// resetEditor returns the editor to idle with nothing selected.
func (g *Game) resetEditor() {
	g.clearVertexSelection()
	g.edit = EditIdle
	g.dragged = components.NoVertex
	g.chainTail = components.NoVertex
	g.selLink = -1
}

// ClearSelection cancels whatever the pointer was doing.
func (g *Game) ClearSelection() {
	g.resetEditor()
}

func (g *Game) clearVertexSelection() {
	for i := range g.graph.Vertices {
		g.graph.Vertices[i].Selected = false
	}
}

// SelectedCount returns the number of selected used vertices.
func (g *Game) SelectedCount() int {
	n := 0
	for i := range g.graph.Vertices {
		v := &g.graph.Vertices[i]
		if v.Used && v.Selected {
			n++
		}
	}
	return n
}

// ToggleSelect flips a vertex in or out of the multi-selection. Editing only.
func (g *Game) ToggleSelect(id int) bool {
	if g.mode != ModeEditing || !g.graph.Valid(id) {
		return false
	}
	g.graph.Vertices[id].Selected = !g.graph.Vertices[id].Selected
	return true
}

// SelectLink makes id the selected link, dropping any vertex selection.
func (g *Game) SelectLink(id int) bool {
	if id < 0 || id >= len(g.graph.Links) {
		return false
	}
	g.resetEditor()
	g.selLink = id
	g.edit = EditLinkSelected
	return true
}

// BeginDrag selects id alone and starts positioning it. In simulating mode the
// vertex is frozen while held.
func (g *Game) BeginDrag(id int) bool {
	if !g.graph.Valid(id) {
		return false
	}
	g.resetEditor()
	g.graph.Vertices[id].Selected = true
	g.dragged = id
	g.edit = EditDragging
	return true
}

// DragTo moves the dragged vertex to (x, y). Link midpoints follow at once so
// hit testing works while editing, when no ticks run.
func (g *Game) DragTo(x, y float64) {
	if g.edit != EditDragging || !g.graph.Valid(g.dragged) {
		return
	}
	g.graph.Vertices[g.dragged].Pos = mgl64.Vec2{x, y}
	g.graph.UpdateMidpoints()
}

// EndDrag releases the dragged vertex. While simulating the vertex restarts
// from rest on the next tick. While editing, a lone selected vertex becomes
// the tail of a new chain.
func (g *Game) EndDrag() {
	if g.edit != EditDragging {
		return
	}
	id := g.dragged
	g.dragged = components.NoVertex

	switch {
	case g.mode == ModeSimulating:
		g.edit = EditIdle
		if g.graph.Valid(id) {
			g.graph.Vertices[id].JustReleased = true
		}
	case g.SelectedCount() == 1 && g.graph.Valid(id):
		g.edit = EditDrawingChain
		g.chainTail = id
	default:
		g.edit = EditIdle
	}
}

// AddChainVertex places a vertex at (x, y) while editing. If a chain is being
// drawn the new vertex is linked to its tail; either way it becomes the tail.
func (g *Game) AddChainVertex(x, y float64) (int, bool) {
	if g.mode != ModeEditing {
		return components.NoVertex, false
	}
	tail := g.chainTail
	drawing := g.edit == EditDrawingChain && g.graph.Valid(tail)

	g.clearVertexSelection()
	id := g.graph.AddVertex(mgl64.Vec2{x, y}, mgl64.Vec2{}, 0, 0, g.phase)
	if drawing {
		g.graph.AddLink(id, tail)
	}
	g.graph.Vertices[id].Selected = true
	g.chainTail = id
	g.selLink = -1
	g.edit = EditDrawingChain
	return id, true
}

// ChainTo links the chain tail to an existing vertex, which becomes the new
// tail. If the two are already linked the vertex is picked up for dragging
// instead.
func (g *Game) ChainTo(id int) bool {
	if g.mode != ModeEditing || g.edit != EditDrawingChain || !g.graph.Valid(id) {
		return false
	}
	if _, ok := g.graph.AddLink(id, g.chainTail); !ok {
		g.BeginDrag(id)
		return false
	}
	g.clearVertexSelection()
	g.graph.Vertices[id].Selected = true
	g.chainTail = id
	return true
}

// DeleteSelected deletes every selected vertex, then the selected link. The
// link is looked up again by its endpoints since vertex deletion renumbers links.
func (g *Game) DeleteSelected() {
	src, dest := components.NoVertex, components.NoVertex
	if g.selLink >= 0 && g.selLink < len(g.graph.Links) {
		l := g.graph.Links[g.selLink]
		src, dest = l.Src, l.Dest
	}

	for i := range g.graph.Vertices {
		if g.graph.Vertices[i].Used && g.graph.Vertices[i].Selected {
			g.deleteVertex(i)
		}
	}
	if src != components.NoVertex {
		if id := g.graph.LinkBetween(src, dest); id >= 0 {
			g.graph.DeleteLink(id)
		}
	}
	g.resetEditor()
}

// DeleteVertex removes a single vertex, dropping the drag or chain if they
// referenced it.
func (g *Game) DeleteVertex(id int) {
	if !g.graph.Valid(id) {
		return
	}
	g.deleteVertex(id)
}

func (g *Game) deleteVertex(id int) {
	if id == g.dragged || id == g.chainTail {
		g.dragged = components.NoVertex
		g.chainTail = components.NoVertex
		g.edit = EditIdle
	}
	if g.selLink >= 0 {
		g.selLink = -1
		if g.edit == EditLinkSelected {
			g.edit = EditIdle
		}
	}
	g.graph.DeleteVertex(id)
}

// SetWheel turns a vertex into a wheel of the given radius, or back into a
// point mass with radius 0.
func (g *Game) SetWheel(id int, radius uint32) {
	g.graph.SetWheel(id, radius)
}
