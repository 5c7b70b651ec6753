package engine

import (
	"fmt"
	"math"
	"time"
)

// Validation and service limits
const (
	MinDestinations     = 2
	MaxPercent          = 100.0
	MaxDriveTicks       = 600
	MaxEventHistory     = 500
	WebSocketBufferSize = 256

	// MaxStep is the largest physics step taken per tick.
	MaxStep = time.Second / 60
)

// Vec2 is a point or vector in world units
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*k
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// Len returns the euclidean length of v
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// InputState is the directional input sampled once per frame
type InputState struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
}

// Steering resolves left/right into -1, 0 or +1. Left wins when both are held.
func (in InputState) Steering() int {
	switch {
	case in.Left:
		return -1
	case in.Right:
		return 1
	default:
		return 0
	}
}

// VehicleBody is the pose and motion of the taxi.
// Heading is in radians, 0 faces up on screen and grows clockwise.
type VehicleBody struct {
	Position        Vec2    `json:"position"`
	Heading         float64 `json:"heading"`
	Velocity        Vec2    `json:"velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
}

// Speed returns the velocity magnitude in units per second
func (b VehicleBody) Speed() float64 {
	return b.Velocity.Len()
}

// Destination is a named place where customers are picked up or dropped off
type Destination struct {
	ID         string          `json:"id"`
	Type       DestinationType `json:"type"`
	Position   Vec2            `json:"position"`
	Name       string          `json:"name"`
	PickupZone Rect            `json:"pickup_zone"`
}

// GameState is the authoritative session state. Only the engine mutates it.
type GameState struct {
	Money          int          `json:"money"`
	TotalEarnings  int          `json:"total_earnings"`
	TotalSpent     int          `json:"total_spent"`
	CompletedRides int          `json:"completed_rides"`
	Score          int          `json:"score"` // mirrors TotalEarnings
	CareerStatus   CareerStatus `json:"career_status"`
	OwnsVehicle    bool         `json:"owns_vehicle"`

	Fuel         float64 `json:"fuel"`
	CarCondition float64 `json:"car_condition"`

	CurrentSpeed float64  `json:"current_speed"`
	SpeedLimit   float64  `json:"speed_limit"`
	SpeedZone    ZoneKind `json:"speed_zone"`
	IsSpeeding   bool     `json:"is_speeding"`
	TotalTickets int      `json:"total_tickets"`

	HasCustomer             bool         `json:"has_customer"`
	RideID                  string       `json:"ride_id,omitempty"`
	CustomerPickupLocation  *Destination `json:"customer_pickup_location"`
	CustomerDropoffLocation *Destination `json:"customer_dropoff_location"`

	CanAffordCar    bool `json:"can_afford_car"`
	CanStartCompany bool `json:"can_start_company"`
}

// Snapshot is a point-in-time copy of a session handed to readers
type Snapshot struct {
	State      GameState     `json:"state"`
	Vehicle    VehicleBody   `json:"vehicle"`
	Phase      CustomerPhase `json:"phase"`
	Objective  string        `json:"objective"`
	Stranded   bool          `json:"stranded"`
	TickCount  int64         `json:"tick_count"`
	ConfigName string        `json:"config_name"`
}

// EventType classifies entries in the event history
type EventType string

const (
	EventCustomerSpawned EventType = "customer_spawned"
	EventPickup          EventType = "pickup"
	EventDropoff         EventType = "dropoff"
	EventTicket          EventType = "ticket"
	EventOutOfFuel       EventType = "out_of_fuel"
	EventCareerHint      EventType = "career_hint"
	EventPurchase        EventType = "purchase"
	EventRespawnDropped  EventType = "respawn_dropped"
	EventReset           EventType = "reset"
)

// Event is something noteworthy that happened during a tick or a purchase
type Event struct {
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Tick      int64     `json:"tick"`
	Amount    int       `json:"amount,omitempty"`
	RideID    string    `json:"ride_id,omitempty"`
	Position  Vec2      `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

// TickResult is returned by every tick
type TickResult struct {
	Tick     int64    `json:"tick"`
	Step     float64  `json:"step_seconds"`
	Distance float64  `json:"distance"`
	Events   []Event  `json:"events,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

func (e Event) String() string {
	return fmt.Sprintf("[%d] %s: %s", e.Tick, e.Type, e.Message)
}
