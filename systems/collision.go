package systems

import "github.com/pthm-cable/botz/components"

// wallEpsilon is the contact tolerance against a vertex's radius.
const wallEpsilon = 0.1

// collideWalls clamps v inside every enabled wall it touches, reflects the
// normal velocity and applies friction to the tangential one. Wheels take no
// friction; instead their spin picks up the tangential velocity.
func collideWalls(v *components.Vertex, ctx *StepContext) StepReport {
	var report StepReport
	env := ctx.Env
	r := float64(v.Radius)

	fric := env.WallFriction
	if v.Wheel {
		fric = 0
	}

	if ctx.Walls.Floor && v.Pos[1]-r < wallEpsilon {
		v.Pos[1] = r
		v.Vel[0] *= 1.0 - fric
		v.Vel[1] = -(v.Vel[1] * env.WallBounce)
		if v.Wheel {
			v.Spin = v.Vel[0]
		}
		report.WallContacts++
	}

	if ctx.Walls.Left && v.Pos[0]-r < wallEpsilon {
		v.Pos[0] = r
		v.Vel[1] *= 1.0 - fric
		v.Vel[0] = -(v.Vel[0] * env.WallBounce)
		if v.Wheel {
			v.Spin = -v.Vel[1]
		}
		report.WallContacts++
		if strike(ctx, components.DriveRight) {
			report.Reversals++
		}
	}

	if ctx.Walls.Right && v.Pos[0]+r > ctx.Arena.RightWall-wallEpsilon {
		v.Pos[0] = ctx.Arena.RightWall - r
		v.Vel[1] *= 1.0 - fric
		v.Vel[0] = -(v.Vel[0] * env.WallBounce)
		if v.Wheel {
			v.Spin = v.Vel[1]
		}
		report.WallContacts++
		if strike(ctx, components.DriveLeft) {
			report.Reversals++
		}
	}

	if ctx.Walls.Ceiling && v.Pos[1]+r > ctx.Arena.Ceiling-wallEpsilon {
		v.Pos[1] = ctx.Arena.Ceiling - r
		v.Vel[0] *= 1.0 - fric
		v.Vel[1] = -(v.Vel[1] * env.WallBounce)
		if v.Wheel {
			v.Spin = -v.Vel[0]
		}
		report.WallContacts++
	}

	return report
}

// strike records a side-wall hit and flips the clock direction if this is a
// new contact.
func strike(ctx *StepContext, dir components.DriveDirection) bool {
	if ctx.AutoReverse == nil || !ctx.AutoReverse.Strike(dir) {
		return false
	}
	ctx.Env.ClockSpeed = -ctx.Env.ClockSpeed
	return true
}
