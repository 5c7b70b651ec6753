package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrRegistryTooSmall     = errors.New("destination registry needs at least two destinations")
	ErrDuplicateDestination = errors.New("duplicate destination id")
	ErrUnknownDestination   = errors.New("unknown destination")
)

// WorldConfig describes the drivable area
type WorldConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the world as a rectangle at the origin
func (w WorldConfig) Bounds() Rect {
	return Rect{Width: w.Width, Height: w.Height}
}

// StartConfig is where the taxi is parked when a session begins
type StartConfig struct {
	Position Vec2    `json:"position"`
	Heading  float64 `json:"heading"`
}

// Band matches when the chosen coordinate is below Below or above Above
type Band struct {
	Axis  Axis    `json:"axis"`
	Below float64 `json:"below"`
	Above float64 `json:"above"`
}

// Matches reports whether p falls in the band
func (b Band) Matches(p Vec2) bool {
	c := p.X
	if b.Axis == AxisY {
		c = p.Y
	}
	return c < b.Below || c > b.Above
}

// SpeedZone is one speed-limit rule. Zones are checked in order.
type SpeedZone struct {
	Kind  ZoneKind `json:"kind"`
	Limit float64  `json:"limit"`
	Band  Band     `json:"band"`
}

// Tuning holds the vehicle handling constants. Speeds are in units per second.
type Tuning struct {
	Acceleration       float64 `json:"acceleration"`
	VelocityDamping    float64 `json:"velocity_damping"`
	BrakeFactor        float64 `json:"brake_factor"`
	TurnRate           float64 `json:"turn_rate"`
	BodyRadius         float64 `json:"body_radius"`
	Restitution        float64 `json:"restitution"`
	PickupRadius       float64 `json:"pickup_radius"`
	StopSpeedThreshold float64 `json:"stop_speed_threshold"`
	RespawnDelayMs     int     `json:"respawn_delay_ms"`
}

// PaymentRates is the per-ride fare for each career tier
type PaymentRates struct {
	Employee   int `json:"employee"`
	Freelancer int `json:"freelancer"`
	Owner      int `json:"owner"`
}

// Economy holds the money and resource constants
type Economy struct {
	FuelPerDistance       float64      `json:"fuel_per_distance"`
	WearPerDistance       float64      `json:"wear_per_distance"`
	ExtraWearRate         float64      `json:"extra_wear_rate"`
	MinTravelDistance     float64      `json:"min_travel_distance"`
	Payments              PaymentRates `json:"payments"`
	MainRoadLimit         float64      `json:"main_road_limit"`
	SpeedZones            []SpeedZone  `json:"speed_zones"`
	TicketThreshold       float64      `json:"ticket_threshold"`
	TicketChance          float64      `json:"ticket_chance"`
	TicketCost            int          `json:"ticket_cost"`
	FuelPricePerPercent   float64      `json:"fuel_price_per_percent"`
	RepairPricePerPercent float64      `json:"repair_price_per_percent"`
	VehiclePrice          int          `json:"vehicle_price"`
	CompanyPrice          int          `json:"company_price"`
}

// GameConfig is a complete city definition loaded from JSON
type GameConfig struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	World        WorldConfig   `json:"world"`
	Start        StartConfig   `json:"start"`
	Destinations []Destination `json:"destinations"`
	Tuning       Tuning        `json:"tuning"`
	Economy      Economy       `json:"economy"`
	Messages     struct {
		Welcome         string `json:"welcome"`
		CustomerWaiting string `json:"customer_waiting"`
		CustomerInTaxi  string `json:"customer_in_taxi"`
		LookingForRide  string `json:"looking_for_ride"`
		OutOfFuel       string `json:"out_of_fuel"`
		CanAffordCar    string `json:"can_afford_car"`
		CanStartCompany string `json:"can_start_company"`
	} `json:"messages"`
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.World.Width <= 0 || config.World.Height <= 0 {
		return fmt.Errorf("config validation: world size must be positive, got %.0fx%.0f",
			config.World.Width, config.World.Height)
	}
	bounds := config.World.Bounds()
	if !bounds.Contains(config.Start.Position) {
		return fmt.Errorf("config validation: start position (%.0f,%.0f) is outside the world",
			config.Start.Position.X, config.Start.Position.Y)
	}

	if _, err := NewRegistry(config.Destinations); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	for _, d := range config.Destinations {
		if d.Name == "" {
			return fmt.Errorf("config validation: destination %s needs a name", d.ID)
		}
		if d.PickupZone.Width <= 0 || d.PickupZone.Height <= 0 {
			return fmt.Errorf("config validation: destination %s has an empty pickup zone", d.ID)
		}
		if !bounds.Contains(d.Position) {
			return fmt.Errorf("config validation: destination %s is outside the world", d.ID)
		}
	}

	t := config.Tuning
	if t.Acceleration <= 0 {
		return fmt.Errorf("config validation: tuning.acceleration must be positive")
	}
	if t.VelocityDamping <= 0 || t.VelocityDamping > 1 {
		return fmt.Errorf("config validation: tuning.velocity_damping must be in (0,1], got %v", t.VelocityDamping)
	}
	if t.BrakeFactor < 0 || t.BrakeFactor > 1 {
		return fmt.Errorf("config validation: tuning.brake_factor must be in [0,1], got %v", t.BrakeFactor)
	}
	if t.Restitution < 0 || t.Restitution > 1 {
		return fmt.Errorf("config validation: tuning.restitution must be in [0,1], got %v", t.Restitution)
	}
	if t.TurnRate <= 0 || t.PickupRadius <= 0 || t.StopSpeedThreshold <= 0 {
		return fmt.Errorf("config validation: turn_rate, pickup_radius and stop_speed_threshold must be positive")
	}
	if t.BodyRadius < 0 || t.RespawnDelayMs < 0 {
		return fmt.Errorf("config validation: body_radius and respawn_delay_ms cannot be negative")
	}
	if 2*t.BodyRadius >= config.World.Width || 2*t.BodyRadius >= config.World.Height {
		return fmt.Errorf("config validation: taxi of radius %.0f does not fit in the world", t.BodyRadius)
	}

	e := config.Economy
	if e.FuelPerDistance < 0 || e.WearPerDistance < 0 || e.ExtraWearRate < 0 {
		return fmt.Errorf("config validation: consumption rates cannot be negative")
	}
	p := e.Payments
	if p.Employee <= 0 || p.Freelancer < p.Employee || p.Owner < p.Freelancer {
		return fmt.Errorf("config validation: payments must be positive and non-decreasing by tier, got %d/%d/%d",
			p.Employee, p.Freelancer, p.Owner)
	}
	if e.MainRoadLimit <= 0 {
		return fmt.Errorf("config validation: economy.main_road_limit must be positive")
	}
	for i, z := range e.SpeedZones {
		if z.Limit <= 0 {
			return fmt.Errorf("config validation: speed zone %d (%s) needs a positive limit", i+1, z.Kind)
		}
	}
	if e.TicketChance < 0 || e.TicketChance > 1 {
		return fmt.Errorf("config validation: economy.ticket_chance must be a probability, got %v", e.TicketChance)
	}
	if e.TicketCost < 0 || e.VehiclePrice < 0 || e.CompanyPrice < 0 {
		return fmt.Errorf("config validation: prices cannot be negative")
	}
	if e.FuelPricePerPercent < 0 || e.RepairPricePerPercent < 0 {
		return fmt.Errorf("config validation: garage rates cannot be negative")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the built-in city
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "The original city: three stores, six houses and three apartment blocks",
		World:       WorldConfig{Width: 2500, Height: 2500},
		Start:       StartConfig{Position: Vec2{X: 200, Y: 200}},
		Destinations: []Destination{
			{ID: "store-1", Type: Store, Position: Vec2{X: 445, Y: 95}, Name: "Main Street Market", PickupZone: Rect{X: 400, Y: 140, Width: 90, Height: 90}},
			{ID: "store-2", Type: Store, Position: Vec2{X: 95, Y: 395}, Name: "West Side Store", PickupZone: Rect{X: 50, Y: 440, Width: 90, Height: 90}},
			{ID: "store-3", Type: Store, Position: Vec2{X: 445, Y: 715}, Name: "Downtown Shop", PickupZone: Rect{X: 400, Y: 760, Width: 90, Height: 90}},
			{ID: "house-1", Type: House, Position: Vec2{X: 95, Y: 95}, Name: "Pine Street Home", PickupZone: Rect{X: 50, Y: 140, Width: 90, Height: 90}},
			{ID: "house-2", Type: House, Position: Vec2{X: 205, Y: 95}, Name: "Oak Avenue House", PickupZone: Rect{X: 160, Y: 140, Width: 90, Height: 90}},
			{ID: "house-3", Type: House, Position: Vec2{X: 1045, Y: 95}, Name: "Elm Street Residence", PickupZone: Rect{X: 1000, Y: 140, Width: 90, Height: 90}},
			{ID: "house-4", Type: House, Position: Vec2{X: 765, Y: 395}, Name: "Maple Drive Home", PickupZone: Rect{X: 720, Y: 440, Width: 90, Height: 90}},
			{ID: "house-5", Type: House, Position: Vec2{X: 875, Y: 395}, Name: "Cedar Lane House", PickupZone: Rect{X: 830, Y: 440, Width: 90, Height: 90}},
			{ID: "house-6", Type: House, Position: Vec2{X: 765, Y: 715}, Name: "Birch Court Home", PickupZone: Rect{X: 720, Y: 760, Width: 90, Height: 90}},
			{ID: "apartment-1", Type: Apartment, Position: Vec2{X: 755, Y: 105}, Name: "Sunset Apartments", PickupZone: Rect{X: 700, Y: 180, Width: 110, Height: 90}},
			{ID: "apartment-2", Type: Apartment, Position: Vec2{X: 105, Y: 725}, Name: "River View Complex", PickupZone: Rect{X: 50, Y: 800, Width: 110, Height: 90}},
			{ID: "office-1", Type: Apartment, Position: Vec2{X: 475, Y: 405}, Name: "City Center Office", PickupZone: Rect{X: 420, Y: 480, Width: 110, Height: 90}},
		},
		Tuning: Tuning{
			Acceleration:       600,
			VelocityDamping:    0.98,
			BrakeFactor:        0.9,
			TurnRate:           1.8,
			BodyRadius:         25,
			Restitution:        0,
			PickupRadius:       50,
			StopSpeedThreshold: 30,
			RespawnDelayMs:     1000,
		},
		Economy: Economy{
			FuelPerDistance:   0.01,
			WearPerDistance:   0.005,
			ExtraWearRate:     0.01,
			MinTravelDistance: 0.1,
			Payments:          PaymentRates{Employee: 50, Freelancer: 100, Owner: 200},
			MainRoadLimit:     240,
			SpeedZones: []SpeedZone{
				{Kind: Residential, Limit: 120, Band: Band{Axis: AxisY, Below: 250, Above: 850}},
				{Kind: Commercial, Limit: 180, Band: Band{Axis: AxisX, Below: 300, Above: 900}},
			},
			TicketThreshold:       20,
			TicketChance:          0.01,
			TicketCost:            100,
			FuelPricePerPercent:   2,
			RepairPricePerPercent: 5,
			VehiclePrice:          5000,
			CompanyPrice:          15000,
		},
	}
	config.Messages.Welcome = "Welcome to the city! Pick up customers and drive them where they need to go."
	config.Messages.CustomerWaiting = "Customer waiting at %s. Drive to them to pick up."
	config.Messages.CustomerInTaxi = "Customer in taxi. Destination: %s. Stop completely in the green zone."
	config.Messages.LookingForRide = "Looking for customer..."
	config.Messages.OutOfFuel = "OUT OF FUEL. Visit the garage to refuel!"
	config.Messages.CanAffordCar = "You can now buy your own car! Visit the garage."
	config.Messages.CanStartCompany = "You can now start your own taxi company! Visit the garage."
	return config
}
