package botz

import (
	"strconv"
	"strings"

	"github.com/pthm-cable/botz/components"
)

// Format encodes a scene. Tombstoned vertices are dropped and link endpoints are
// renumbered to match, so the output always parses back into a dense scene.
func Format(s *Scene) string {
	var b strings.Builder

	writeFloat(&b, 'G', s.Env.Gravity)
	writeFloat(&b, 'A', s.Env.Atmosphere)
	writeFloat(&b, 'F', s.Env.WallFriction)
	writeFloat(&b, 'B', s.Env.WallBounce)
	writeFloat(&b, 'W', s.Env.LeftWind)
	writeFloat(&b, 'T', s.Env.Tension)
	writeInt(&b, 'C', int64(s.Env.ClockSpeed))
	mode := int64(0)
	if s.Simulating {
		mode = 1
	}
	writeInt(&b, 'M', mode)

	index := make([]int, len(s.Vertices))
	n := 0
	for i, v := range s.Vertices {
		if !v.Used {
			index[i] = -1
			continue
		}
		index[i] = n
		n++

		b.WriteByte('V')
		writeSub(&b, 'X', fmtFloat(v.Pos[0]), false)
		writeSub(&b, 'Y', fmtFloat(v.Pos[1]), true)
		writeSub(&b, 'H', fmtFloat(v.Vel[0]), true)
		writeSub(&b, 'U', fmtFloat(v.Vel[1]), true)
		writeSub(&b, 'R', strconv.FormatUint(uint64(v.Radius), 10), true)
		writeSub(&b, 'C', fmtFloat(v.Spin), true)
		writeSub(&b, 'P', strconv.FormatUint(uint64(v.Phase), 10), true)
		b.WriteByte(';')
	}

	for _, l := range s.Links {
		if !validEndpoint(index, l.Src) || !validEndpoint(index, l.Dest) {
			continue
		}
		b.WriteByte('L')
		writeSub(&b, 'A', strconv.Itoa(index[l.Src]+1), false)
		writeSub(&b, 'B', strconv.Itoa(index[l.Dest]+1), true)
		writeSub(&b, 'L', fmtFloat(l.RestLength), true)
		writeSub(&b, 'T', fmtFloat(l.Tension), true)
		writeSub(&b, 'S', strconv.FormatInt(int64(l.PushSpan), 10), true)
		writeSub(&b, 'P', fmtFloat(l.Push), true)
		writeSub(&b, 'N', fmtFloat(l.PushStrength), true)
		writeSub(&b, 'E', fmtFloat(l.LastLength), true)
		writeSub(&b, 'M', strconv.FormatInt(int64(l.PushTiming), 10), true)
		b.WriteByte(';')
	}

	return b.String()
}

// FromGraph builds a scene from live state without copying the slices.
func FromGraph(env components.Environment, simulating bool, vertices []components.Vertex, links []components.Link) *Scene {
	return &Scene{Env: env, Simulating: simulating, Vertices: vertices, Links: links}
}

func validEndpoint(index []int, id int) bool {
	return id >= 0 && id < len(index) && index[id] >= 0
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func writeFloat(b *strings.Builder, key byte, f float64) {
	b.WriteByte(key)
	b.WriteString(fmtFloat(f))
	b.WriteByte(';')
}

func writeInt(b *strings.Builder, key byte, n int64) {
	b.WriteByte(key)
	b.WriteString(strconv.FormatInt(n, 10))
	b.WriteByte(';')
}

func writeSub(b *strings.Builder, key byte, val string, sep bool) {
	if sep {
		b.WriteByte('|')
	}
	b.WriteByte(key)
	b.WriteString(val)
}
