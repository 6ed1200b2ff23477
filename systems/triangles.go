package systems

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/pthm-cable/botz/components"
)

// Triangle is a 3-cycle of vertex ids in ascending order.
type Triangle [3]int

// NewTriangle returns the canonical (sorted) form of the triple.
func NewTriangle(a, b, c int) Triangle {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return Triangle{a, b, c}
}

// TriangleCache holds the set of 3-cycles found in the link graph. It is only
// valid while the dirty flag is clear. Triangles keep the order they were first
// found in, so panels draw in a stable order between rebuilds.
type TriangleCache struct {
	found *orderedmap.OrderedMap[Triangle, struct{}]
	dirty bool
	adj   []bool // n*n adjacency, reused across rebuilds
}

// NewTriangleCache returns an empty cache flagged for rebuild.
func NewTriangleCache() *TriangleCache {
	return &TriangleCache{
		found: orderedmap.NewOrderedMap[Triangle, struct{}](),
		dirty: true,
	}
}

// Invalidate flags the cache for rebuild on the next query.
func (c *TriangleCache) Invalidate() {
	c.dirty = true
}

// Dirty reports whether the topology changed since the last rebuild.
func (c *TriangleCache) Dirty() bool {
	return c.dirty
}

// Rebuild recomputes the triangle set from scratch. O(L*V).
func (c *TriangleCache) Rebuild(vertices []components.Vertex, links []components.Link) {
	n := len(vertices)
	if cap(c.adj) < n*n {
		c.adj = make([]bool, n*n)
	} else {
		c.adj = c.adj[:n*n]
		clear(c.adj)
	}
	for _, l := range links {
		c.adj[l.Src*n+l.Dest] = true
		c.adj[l.Dest*n+l.Src] = true
	}

	found := orderedmap.NewOrderedMap[Triangle, struct{}]()
	for _, l := range links {
		for j := 0; j < n; j++ {
			if j == l.Src || j == l.Dest || !vertices[j].Used {
				continue
			}
			if c.adj[l.Src*n+j] && c.adj[l.Dest*n+j] {
				found.Set(NewTriangle(j, l.Src, l.Dest), struct{}{})
			}
		}
	}

	c.found = found
	c.dirty = false
}

// List returns the cached triangles without rebuilding.
func (c *TriangleCache) List() []Triangle {
	out := make([]Triangle, 0, c.found.Len())
	for el := c.found.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// Contains reports whether t is in the cached set.
func (c *TriangleCache) Contains(t Triangle) bool {
	_, ok := c.found.Get(t)
	return ok
}

// Len returns the number of cached triangles.
func (c *TriangleCache) Len() int {
	return c.found.Len()
}
