package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearingTo(t *testing.T) {
	origin := Vec2{X: 100, Y: 100}
	assert.InDelta(t, 0, BearingTo(origin, Vec2{X: 100, Y: 0}), 1e-12)
	assert.InDelta(t, math.Pi/2, BearingTo(origin, Vec2{X: 200, Y: 100}), 1e-12)
	assert.InDelta(t, -math.Pi/2, BearingTo(origin, Vec2{X: 0, Y: 100}), 1e-12)
	assert.InDelta(t, math.Pi, BearingTo(origin, Vec2{X: 100, Y: 200}), 1e-12)

	// The bearing agrees with Heading
	h := Heading(BearingTo(origin, Vec2{X: 130, Y: 60}))
	assert.InDelta(t, 0.6, h.X, 1e-12)
	assert.InDelta(t, -0.8, h.Y, 1e-12)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0, NormalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeAngle(math.Pi), 1e-12)
}

func TestNavigationFor(t *testing.T) {
	pickup := Destination{ID: "p", Name: "Pickup", Position: Vec2{X: 100, Y: 0}}
	dropoff := Destination{ID: "d", Name: "Dropoff", PickupZone: Rect{X: 150, Y: 50, Width: 100, Height: 100}}

	snap := Snapshot{Vehicle: VehicleBody{Position: Vec2{X: 100, Y: 100}}}
	_, ok := NavigationFor(snap, 0.1)
	assert.False(t, ok)

	snap.State.CustomerPickupLocation = &pickup
	snap.State.CustomerDropoffLocation = &dropoff
	nav, ok := NavigationFor(snap, 0.1)
	require.True(t, ok)
	assert.Equal(t, "p", nav.TargetID)
	assert.InDelta(t, 100, nav.Distance, 1e-9)
	assert.Equal(t, "straight", nav.Turn)

	snap.State.HasCustomer = true
	nav, ok = NavigationFor(snap, 0.1)
	require.True(t, ok)
	assert.Equal(t, "Dropoff", nav.TargetName)
	assert.InDelta(t, 100, nav.Distance, 1e-9)
	assert.InDelta(t, math.Pi/2, nav.TurnBy, 1e-12)
	assert.Equal(t, "right", nav.Turn)

	snap.Vehicle.Heading = math.Pi
	nav, _ = NavigationFor(snap, 0.1)
	assert.Equal(t, "left", nav.Turn)
}
