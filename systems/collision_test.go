package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/botz/components"
)

func TestWheelKeepsTangentialVelocityOnFloor(t *testing.T) {
	for _, radius := range []uint32{0, 10} {
		g := newTestGraph(mgl64.Vec2{100, float64(radius)})
		g.SetWheel(0, radius)
		g.Vertices[0].Vel = mgl64.Vec2{3, 0}

		ctx := quietContext()
		ctx.Env.Gravity = 0.4
		ctx.Env.WallFriction = 0.7
		ctx.Env.WallBounce = 0.4
		ctx.Walls.Floor = true

		report := NewPhysicsSystem(&Clock{}).Integrate(g, ctx)
		v := g.Vertices[0]

		if report.WallContacts != 1 {
			t.Fatalf("radius %d: contacts = %d, want 1", radius, report.WallContacts)
		}
		if v.Pos[1] != float64(radius) {
			t.Errorf("radius %d: y = %v, want clamped to %d", radius, v.Pos[1], radius)
		}
		if math.Abs(v.Vel[1]-0.24) > 1e-12 {
			t.Errorf("radius %d: vy = %v, want bounced 0.24", radius, v.Vel[1])
		}

		if radius > 0 {
			if v.Vel[0] != 3 {
				t.Errorf("wheel lost tangential velocity: %v", v.Vel[0])
			}
			if v.Spin != 3 || v.Heading != 3 {
				t.Errorf("wheel spin = %v heading = %v, want 3 and 3", v.Spin, v.Heading)
			}
		} else {
			if math.Abs(v.Vel[0]-0.9) > 1e-12 {
				t.Errorf("point vx = %v, want 0.9 after friction", v.Vel[0])
			}
			if v.Spin != 0 {
				t.Errorf("point picked up spin %v", v.Spin)
			}
		}
	}
}

func TestWheelSpinSignPerWall(t *testing.T) {
	tests := []struct {
		name     string
		walls    components.Walls
		pos, vel mgl64.Vec2
		wantSpin float64
	}{
		{"floor couples vx", components.Walls{Floor: true}, mgl64.Vec2{300, 6}, mgl64.Vec2{1, -2}, 1},
		{"ceiling couples -vx", components.Walls{Ceiling: true}, mgl64.Vec2{300, 590}, mgl64.Vec2{1, 2}, -1},
		{"left couples -vy", components.Walls{Left: true}, mgl64.Vec2{6, 300}, mgl64.Vec2{-2, 1}, -1},
		{"right couples vy", components.Walls{Right: true}, mgl64.Vec2{790, 300}, mgl64.Vec2{2, 1}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGraph(tc.pos)
			g.SetWheel(0, 5)
			g.Vertices[0].Vel = tc.vel

			ctx := quietContext()
			ctx.Walls = tc.walls
			ctx.Env.WallBounce = 0.5
			ctx.Env.WallFriction = 0.7
			NewPhysicsSystem(&Clock{}).Integrate(g, ctx)

			if got := g.Vertices[0].Spin; got != tc.wantSpin {
				t.Errorf("spin = %v, want %v", got, tc.wantSpin)
			}
		})
	}
}

func TestWallClampsInsideArena(t *testing.T) {
	g := newTestGraph(mgl64.Vec2{795, 595})
	g.Vertices[0].Vel = mgl64.Vec2{10, 10}

	ctx := quietContext()
	ctx.Walls = components.Walls{Floor: true, Ceiling: true, Left: true, Right: true}
	ctx.Env.WallBounce = 1
	NewPhysicsSystem(&Clock{}).Integrate(g, ctx)

	v := g.Vertices[0]
	if v.Pos != (mgl64.Vec2{796, 596}) {
		t.Errorf("pos = %v, want clamped to [796 596]", v.Pos)
	}
	if v.Vel != (mgl64.Vec2{-10, -10}) {
		t.Errorf("vel = %v, want reflected [-10 -10]", v.Vel)
	}
}

func TestAutoReverseFlipsOncePerContact(t *testing.T) {
	g := newTestGraph(mgl64.Vec2{20, 300})
	g.Vertices[0].Vel = mgl64.Vec2{-10, 0}

	ctx := quietContext()
	ctx.Env.ClockSpeed = 3
	ctx.Env.LeftWind = -5 // keep the body pressed against the left wall
	ctx.Walls = components.Walls{Left: true, Right: true}
	ctx.AutoReverse.Enabled = true

	phys := NewPhysicsSystem(&Clock{})
	var total StepReport
	for i := 0; i < 20; i++ {
		total.Add(phys.Update(g, ctx))
	}

	if ctx.Env.ClockSpeed != -3 {
		t.Fatalf("clock speed = %d, want -3", ctx.Env.ClockSpeed)
	}
	if total.Reversals != 1 {
		t.Fatalf("reversals = %d, want 1 while resting on the wall", total.Reversals)
	}
	if total.WallContacts < 10 {
		t.Fatalf("contacts = %d, expected the body to rest on the wall", total.WallContacts)
	}

	// Now strike the right wall, then the left again.
	ctx.Env.LeftWind = 0
	g.Vertices[0].Pos = mgl64.Vec2{790, 300}
	g.Vertices[0].Vel = mgl64.Vec2{20, 0}
	total.Add(phys.Update(g, ctx))
	if ctx.Env.ClockSpeed != 3 {
		t.Fatalf("after right wall: clock speed = %d, want 3", ctx.Env.ClockSpeed)
	}
	if ctx.AutoReverse.State != components.DriveLeft {
		t.Errorf("state = %v, want left", ctx.AutoReverse.State)
	}

	g.Vertices[0].Pos = mgl64.Vec2{10, 300}
	g.Vertices[0].Vel = mgl64.Vec2{-20, 0}
	total.Add(phys.Update(g, ctx))
	if ctx.Env.ClockSpeed != -3 || total.Reversals != 3 {
		t.Errorf("clock speed = %d reversals = %d, want -3 and 3", ctx.Env.ClockSpeed, total.Reversals)
	}
}

func TestAutoReverseDisabled(t *testing.T) {
	g := newTestGraph(mgl64.Vec2{5, 300})
	g.Vertices[0].Vel = mgl64.Vec2{-10, 0}

	ctx := quietContext()
	ctx.Env.ClockSpeed = 3
	ctx.Walls.Left = true

	report := NewPhysicsSystem(&Clock{}).Update(g, ctx)
	if ctx.Env.ClockSpeed != 3 || report.Reversals != 0 {
		t.Errorf("disabled auto-reverse flipped the clock: speed=%d", ctx.Env.ClockSpeed)
	}
}
