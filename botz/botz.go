// Package botz reads and writes the .botz scene format: a semicolon-separated
// record stream whose first character selects the field.
//
//	G A F B W T C   environment scalars (gravity, atmosphere, friction, bounce, wind, tension, clock)
//	M               mode (0 edit, 1 simulate)
//	V               vertex, pipe-separated X Y H U R C P
//	L               link, pipe-separated A B L T S P N E M (A and B are 1-based)
//
// Unknown leading characters are ignored. A malformed number aborts the load.
package botz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/botz/components"
)

var (
	// ErrMalformed wraps every numeric parse failure.
	ErrMalformed = errors.New("malformed record")
	// ErrLinkEndpoint reports a link whose endpoints do not name loaded vertices.
	ErrLinkEndpoint = errors.New("link endpoint out of range")
	// ErrDuplicateLink reports a self link or a second link between one pair.
	ErrDuplicateLink = errors.New("duplicate link")
)

// Default link tension for records that omit T.
const defaultLinkTension = 0.9

// Scene is a fully parsed .botz document.
type Scene struct {
	Env        components.Environment
	Simulating bool
	Vertices   []components.Vertex
	Links      []components.Link
}

// Parse decodes data into a new Scene. Environment fields absent from data keep
// their value from base. On error nothing is returned, so a caller can load into
// a fresh scene and only swap it in on success.
func Parse(data string, base components.Environment) (*Scene, error) {
	s := &Scene{Env: base}

	for i, rec := range strings.Split(data, ";") {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		if err := s.parseRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	seen := make(map[[2]int]int, len(s.Links))
	for i, l := range s.Links {
		if l.Src < 0 || l.Src >= len(s.Vertices) || l.Dest < 0 || l.Dest >= len(s.Vertices) {
			return nil, fmt.Errorf("link %d (%d-%d): %w", i+1, l.Src+1, l.Dest+1, ErrLinkEndpoint)
		}
		if l.Src == l.Dest {
			return nil, fmt.Errorf("link %d joins vertex %d to itself: %w", i+1, l.Src+1, ErrDuplicateLink)
		}
		key := [2]int{min(l.Src, l.Dest), max(l.Src, l.Dest)}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("link %d repeats link %d (%d-%d): %w", i+1, prev+1, l.Src+1, l.Dest+1, ErrDuplicateLink)
		}
		seen[key] = i
	}
	return s, nil
}

func (s *Scene) parseRecord(rec string) error {
	key, val := rec[0], rec[1:]
	var err error
	switch key {
	case 'G':
		s.Env.Gravity, err = parseFloat(key, val)
	case 'A':
		s.Env.Atmosphere, err = parseFloat(key, val)
	case 'F':
		s.Env.WallFriction, err = parseFloat(key, val)
	case 'B':
		s.Env.WallBounce, err = parseFloat(key, val)
	case 'W':
		s.Env.LeftWind, err = parseFloat(key, val)
	case 'T':
		s.Env.Tension, err = parseFloat(key, val)
	case 'C':
		s.Env.ClockSpeed, err = parseInt32(key, val)
	case 'M':
		var mode uint64
		mode, err = parseUint(key, val, 8)
		s.Simulating = mode == 1
	case 'V':
		var v components.Vertex
		v, err = parseVertex(val)
		s.Vertices = append(s.Vertices, v)
	case 'L':
		var l components.Link
		l, err = parseLink(val)
		s.Links = append(s.Links, l)
	}
	return err
}

func parseVertex(val string) (components.Vertex, error) {
	v := components.Vertex{Used: true}
	for _, f := range fields(val) {
		key, val := f[0], f[1:]
		var err error
		switch key {
		case 'X':
			v.Pos[0], err = parseFloat(key, val)
		case 'Y':
			v.Pos[1], err = parseFloat(key, val)
		case 'H':
			v.Vel[0], err = parseFloat(key, val)
		case 'U':
			v.Vel[1], err = parseFloat(key, val)
		case 'R':
			var r uint64
			r, err = parseUint(key, val, 32)
			v.Radius = uint32(r)
			v.RefreshWheel()
		case 'C':
			v.Spin, err = parseFloat(key, val)
		case 'P':
			var p uint64
			p, err = parseUint(key, val, 8)
			v.Phase = uint8(p)
		}
		if err != nil {
			return v, fmt.Errorf("vertex: %w", err)
		}
	}
	return v, nil
}

func parseLink(val string) (components.Link, error) {
	l := components.Link{Tension: defaultLinkTension}
	for _, f := range fields(val) {
		key, val := f[0], f[1:]
		var err error
		switch key {
		case 'A':
			l.Src, err = parseIndex(key, val)
		case 'B':
			l.Dest, err = parseIndex(key, val)
		case 'L':
			l.RestLength, err = parseFloat(key, val)
		case 'T':
			l.Tension, err = parseFloat(key, val)
		case 'S':
			l.PushSpan, err = parseInt32(key, val)
		case 'P':
			l.Push, err = parseFloat(key, val)
		case 'N':
			l.PushStrength, err = parseFloat(key, val)
		case 'E':
			l.LastLength, err = parseFloat(key, val)
		case 'M':
			l.PushTiming, err = parseInt32(key, val)
		}
		if err != nil {
			return l, fmt.Errorf("link: %w", err)
		}
	}
	return l, nil
}

// fields splits a record body on '|' and drops empty sub-records.
func fields(val string) []string {
	parts := strings.Split(val, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(key byte, val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %c %q", ErrMalformed, key, val)
	}
	return f, nil
}

func parseInt32(key byte, val string) (int32, error) {
	n, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: field %c %q", ErrMalformed, key, val)
	}
	return int32(n), nil
}

func parseUint(key byte, val string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(val, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: field %c %q", ErrMalformed, key, val)
	}
	return n, nil
}

// parseIndex reads a 1-based vertex index and returns it 0-based.
func parseIndex(key byte, val string) (int, error) {
	n, err := strconv.ParseUint(val, 10, 31)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: field %c %q", ErrMalformed, key, val)
	}
	return int(n) - 1, nil
}
