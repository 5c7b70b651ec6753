package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine provides the main interface for simulation operations
type Engine interface {
	// Simulation
	Tick(in InputState, elapsed time.Duration) *TickResult
	Snapshot() Snapshot
	Reset() Snapshot
	Phase() CustomerPhase

	// Garage
	Refuel(targetPercent float64) PurchaseResult
	Repair(targetPercent float64) PurchaseResult
	BuyVehicle() PurchaseResult
	StartCompany() PurchaseResult

	// Configuration
	GetConfig() *GameConfig
	Destinations() []Destination

	// History
	History() []Event
}

// GameEngine implements Engine. It is not safe for concurrent use;
// callers serialize ticks and purchases.
type GameEngine struct {
	config   *GameConfig
	registry *Registry

	state        GameState
	body         VehicleBody
	lastPosition Vec2
	queue        *EventQueue
	tickCount    int64
	history      []Event
	tickEvents   []Event

	clock  Clock
	rng    *rand.Rand
	newID  func() string
	logger zerolog.Logger
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithClock sets the clock used for scheduled events
func WithClock(c Clock) Option {
	return func(e *GameEngine) { e.clock = c }
}

// WithRand sets the random source for customer draws and ticket rolls
func WithRand(r *rand.Rand) Option {
	return func(e *GameEngine) { e.rng = r }
}

// WithLogger sets the engine logger
func WithLogger(l zerolog.Logger) Option {
	return func(e *GameEngine) { e.logger = l }
}

// WithRideIDs overrides ride id generation
func WithRideIDs(gen func() string) Option {
	return func(e *GameEngine) { e.newID = gen }
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	registry, err := NewRegistry(config.Destinations)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:   config,
		registry: registry,
		queue:    NewEventQueue(),
		clock:    SystemClock{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:    uuid.NewString,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.restart()
	return e, nil
}

// NewGameState returns the state every session starts from
func NewGameState(config *GameConfig) GameState {
	state := GameState{
		CareerStatus: Employee,
		Fuel:         MaxPercent,
		CarCondition: MaxPercent,
	}
	state.SpeedZone, state.SpeedLimit = config.Economy.SpeedLimitAt(config.Start.Position)
	return state
}

func (e *GameEngine) restart() {
	e.state = NewGameState(e.config)
	e.body = VehicleBody{
		Position: e.config.Start.Position,
		Heading:  e.config.Start.Heading,
	}
	e.lastPosition = e.body.Position
	e.queue.Clear()
	e.tickCount = 0
}

// Reset restarts the session from the configured start. History is kept.
func (e *GameEngine) Reset() Snapshot {
	e.restart()
	e.record(EventReset, orDefault(e.config.Messages.Welcome, "Game reset"), 0, "")
	e.logger.Info().Msg("session reset")
	return e.Snapshot()
}

// GetConfig returns the city configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Destinations returns the city's destinations in registry order
func (e *GameEngine) Destinations() []Destination {
	return e.registry.All()
}

// History returns a copy of the recorded events, oldest first
func (e *GameEngine) History() []Event {
	out := make([]Event, len(e.history))
	copy(out, e.history)
	return out
}

// Stranded reports whether the taxi is out of fuel
func (e *GameEngine) Stranded() bool {
	return e.state.Fuel <= 0
}

// Snapshot returns a deep copy of the session
func (e *GameEngine) Snapshot() Snapshot {
	state := e.state
	if e.state.CustomerPickupLocation != nil {
		d := *e.state.CustomerPickupLocation
		state.CustomerPickupLocation = &d
	}
	if e.state.CustomerDropoffLocation != nil {
		d := *e.state.CustomerDropoffLocation
		state.CustomerDropoffLocation = &d
	}
	return Snapshot{
		State:      state,
		Vehicle:    e.body,
		Phase:      e.Phase(),
		Objective:  e.Objective(),
		Stranded:   e.Stranded(),
		TickCount:  e.tickCount,
		ConfigName: e.config.Name,
	}
}

// Objective is the one-line instruction shown to the driver
func (e *GameEngine) Objective() string {
	m := e.config.Messages
	switch {
	case e.Stranded():
		return orDefault(m.OutOfFuel, "Out of fuel")
	case e.state.HasCustomer && e.state.CustomerDropoffLocation != nil:
		return fmt.Sprintf(orDefault(m.CustomerInTaxi, "Customer in taxi. Destination: %s"), e.state.CustomerDropoffLocation.Name)
	case e.state.CustomerPickupLocation != nil:
		return fmt.Sprintf(orDefault(m.CustomerWaiting, "Customer waiting at %s"), e.state.CustomerPickupLocation.Name)
	default:
		return orDefault(m.LookingForRide, "Looking for customer...")
	}
}

// Tick advances the simulation by one frame
func (e *GameEngine) Tick(in InputState, elapsed time.Duration) *TickResult {
	e.tickCount++
	e.tickEvents = e.tickEvents[:0]
	result := &TickResult{Tick: e.tickCount, Step: StepSeconds(elapsed)}

	if e.Stranded() {
		e.halt()
		result.Step = 0
		return e.finish(result)
	}

	e.body = StepVehicle(e.body, in, elapsed, e.config.Tuning, e.config.World)

	distance := e.body.Position.Sub(e.lastPosition).Len()
	e.lastPosition = e.body.Position
	result.Distance = distance

	eco := e.config.Economy
	e.state.CurrentSpeed = e.body.Speed()
	e.state.SpeedZone, e.state.SpeedLimit = eco.SpeedLimitAt(e.body.Position)
	e.state.IsSpeeding = eco.IsSpeeding(e.state.CurrentSpeed, e.state.SpeedLimit)

	if e.state.IsSpeeding && eco.RollTicket(e.rng) {
		e.state.Money -= eco.TicketCost
		e.state.TotalSpent += eco.TicketCost
		e.state.TotalTickets++
		e.record(EventTicket, fmt.Sprintf("Speeding ticket: %.0f in a %.0f zone", e.state.CurrentSpeed, e.state.SpeedLimit), eco.TicketCost, "")
		e.refreshCareerHints()
	}

	if distance > eco.MinTravelDistance {
		e.state.Fuel = clampPercent(e.state.Fuel - eco.FuelDelta(distance))
		e.state.CarCondition = clampPercent(e.state.CarCondition - eco.ConditionDelta(distance, e.state.IsSpeeding))
	}

	if e.Stranded() {
		e.halt()
		e.record(EventOutOfFuel, orDefault(e.config.Messages.OutOfFuel, "Out of fuel"), 0, e.state.RideID)
		e.logger.Warn().Int64("tick", e.tickCount).Msg("out of fuel")
		return e.finish(result)
	}

	e.fireDue()
	e.stepCustomer()

	return e.finish(result)
}

func (e *GameEngine) halt() {
	e.body.Velocity = Vec2{}
	e.body.AngularVelocity = 0
	e.state.CurrentSpeed = 0
	e.state.IsSpeeding = false
}

func (e *GameEngine) finish(result *TickResult) *TickResult {
	if len(e.tickEvents) > 0 {
		result.Events = make([]Event, len(e.tickEvents))
		copy(result.Events, e.tickEvents)
	}
	result.Snapshot = e.Snapshot()
	return result
}

func (e *GameEngine) record(kind EventType, msg string, amount int, rideID string) {
	ev := Event{
		Type:      kind,
		Message:   msg,
		Tick:      e.tickCount,
		Amount:    amount,
		RideID:    rideID,
		Position:  e.body.Position,
		Timestamp: e.clock.Now(),
	}
	e.history = append(e.history, ev)
	e.tickEvents = append(e.tickEvents, ev)
	if over := len(e.history) - MaxEventHistory; over > 0 {
		e.history = append(e.history[:0], e.history[over:]...)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
