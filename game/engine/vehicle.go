package engine

import (
	"math"
	"time"
)

// Heading returns the unit vector the taxi faces at angle theta.
// Zero points up the screen (negative Y).
func Heading(theta float64) Vec2 {
	a := theta - math.Pi/2
	return Vec2{X: math.Cos(a), Y: math.Sin(a)}
}

// StepSeconds converts a frame duration to the physics step actually taken.
// Frames longer than MaxStep are clamped so the game slows down instead of tunnelling.
func StepSeconds(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed > MaxStep {
		elapsed = MaxStep
	}
	return elapsed.Seconds()
}

// StepVehicle advances the body by one frame of input.
// The input is applied as damping, thrust, brake and steering, in that order,
// then position and heading are integrated with the new velocities.
func StepVehicle(body VehicleBody, in InputState, elapsed time.Duration, t Tuning, world WorldConfig) VehicleBody {
	dt := StepSeconds(elapsed)
	if dt == 0 {
		return body
	}
	return keepInside(integrate(body, in, dt, t), world.Bounds(), t.BodyRadius, t.Restitution)
}

// integrate applies one step of input and motion, ignoring the world bounds
func integrate(body VehicleBody, in InputState, dt float64, t Tuning) VehicleBody {
	body.Velocity = body.Velocity.Scale(t.VelocityDamping)

	if in.Forward {
		body.Velocity = body.Velocity.Add(Heading(body.Heading).Scale(t.Acceleration * dt))
	}
	if in.Backward {
		body.Velocity = body.Velocity.Scale(t.BrakeFactor)
	}

	body.AngularVelocity = float64(in.Steering()) * t.TurnRate

	body.Position = body.Position.Add(body.Velocity.Scale(dt))
	body.Heading += body.AngularVelocity * dt
	return body
}

// keepInside clamps the body circle into the world rectangle and
// reflects the velocity component pointing out of it.
func keepInside(body VehicleBody, bounds Rect, radius, restitution float64) VehicleBody {
	minX, maxX := bounds.X+radius, bounds.X+bounds.Width-radius
	minY, maxY := bounds.Y+radius, bounds.Y+bounds.Height-radius

	if body.Position.X < minX {
		body.Position.X = minX
		if body.Velocity.X < 0 {
			body.Velocity.X = -body.Velocity.X * restitution
		}
	} else if body.Position.X > maxX {
		body.Position.X = maxX
		if body.Velocity.X > 0 {
			body.Velocity.X = -body.Velocity.X * restitution
		}
	}

	if body.Position.Y < minY {
		body.Position.Y = minY
		if body.Velocity.Y < 0 {
			body.Velocity.Y = -body.Velocity.Y * restitution
		}
	} else if body.Position.Y > maxY {
		body.Position.Y = maxY
		if body.Velocity.Y > 0 {
			body.Velocity.Y = -body.Velocity.Y * restitution
		}
	}

	return body
}

// CameraOffset returns the top-left corner of a screen centred on pos
func CameraOffset(pos, screen Vec2) Vec2 {
	return pos.Sub(screen.Scale(0.5))
}
