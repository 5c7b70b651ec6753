package engine

import "math"

// Distance returns the straight-line distance between two points
func Distance(from, to Vec2) float64 {
	return to.Sub(from).Len()
}

// BearingTo returns the heading that points from -> to, in the engine's
// heading convention (0 is up, clockwise positive)
func BearingTo(from, to Vec2) float64 {
	d := to.Sub(from)
	return math.Atan2(d.X, -d.Y)
}

// NormalizeAngle wraps a into (-pi, pi]
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// CurrentTarget returns where the driver should go next: the pickup while a
// customer waits, the dropoff once they are aboard
func CurrentTarget(state GameState) (Destination, bool) {
	switch {
	case state.HasCustomer && state.CustomerDropoffLocation != nil:
		return *state.CustomerDropoffLocation, true
	case state.CustomerPickupLocation != nil:
		return *state.CustomerPickupLocation, true
	}
	return Destination{}, false
}

// Navigation describes the current target relative to the taxi
type Navigation struct {
	TargetID   string  `json:"target_id"`
	TargetName string  `json:"target_name"`
	Distance   float64 `json:"distance"`
	Bearing    float64 `json:"bearing"`
	TurnBy     float64 `json:"turn_by"`
	Turn       string  `json:"turn"`
}

// NavigationFor computes distance and steering towards the current target.
// The target point is the destination position while picking up and the
// centre of the drop-off zone while delivering.
func NavigationFor(snap Snapshot, tolerance float64) (*Navigation, bool) {
	target, ok := CurrentTarget(snap.State)
	if !ok {
		return nil, false
	}

	point := target.Position
	if snap.State.HasCustomer {
		z := target.PickupZone
		point = Vec2{X: z.X + z.Width/2, Y: z.Y + z.Height/2}
	}

	bearing := BearingTo(snap.Vehicle.Position, point)
	turnBy := NormalizeAngle(bearing - snap.Vehicle.Heading)

	turn := "straight"
	if turnBy < -tolerance {
		turn = "left"
	} else if turnBy > tolerance {
		turn = "right"
	}

	return &Navigation{
		TargetID:   target.ID,
		TargetName: target.Name,
		Distance:   Distance(snap.Vehicle.Position, point),
		Bearing:    bearing,
		TurnBy:     turnBy,
		Turn:       turn,
	}, true
}
