package components

// Environment holds the global forces applied every tick.
// ClockSpeed is mutable at runtime: auto-reverse flips its sign.
type Environment struct {
	Gravity      float64
	Atmosphere   float64 // drag coefficient, 0..1
	WallBounce   float64
	WallFriction float64
	LeftWind     float64
	Tension      float64 // default tension for new links
	ClockSpeed   int32   // signed tick increment of the actuation clock
}

// Walls enables the four collision planes independently.
type Walls struct {
	Floor   bool
	Ceiling bool
	Left    bool
	Right   bool
}

// Arena holds the upper collision bounds. The floor and left wall sit at zero.
type Arena struct {
	RightWall float64
	Ceiling   float64
}

// DriveDirection is the auto-reverse drive state, named by the wall most recently struck.
type DriveDirection uint8

const (
	DriveNeutral DriveDirection = iota
	DriveLeft                   // last struck the right wall
	DriveRight                  // last struck the left wall
)

// String returns the direction name.
func (d DriveDirection) String() string {
	switch d {
	case DriveLeft:
		return "left"
	case DriveRight:
		return "right"
	default:
		return "neutral"
	}
}

// AutoReverse tracks which wall last flipped the clock so a body resting against
// a wall flips it only once.
type AutoReverse struct {
	Enabled bool
	State   DriveDirection
}

// Strike records a hit that drives the body in dir. It reports true when the
// clock should flip: auto-reverse is on and dir differs from the current drive.
func (a *AutoReverse) Strike(dir DriveDirection) bool {
	if !a.Enabled || a.State == dir {
		return false
	}
	a.State = dir
	return true
}
