package engine

import "fmt"

// DestinationType is the kind of building at a destination
type DestinationType int

const (
	Store DestinationType = iota
	House
	Apartment
)

func (t DestinationType) String() string {
	switch t {
	case Store:
		return "store"
	case House:
		return "house"
	case Apartment:
		return "apartment"
	}
	return fmt.Sprintf("DestinationType(%d)", int(t))
}

// MarshalText encodes the type by name
func (t DestinationType) MarshalText() ([]byte, error) {
	switch t {
	case Store, House, Apartment:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("unknown destination type %d", int(t))
}

// UnmarshalText decodes a destination type name
func (t *DestinationType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "store":
		*t = Store
	case "house":
		*t = House
	case "apartment":
		*t = Apartment
	default:
		return fmt.Errorf("unknown destination type %q", string(b))
	}
	return nil
}

// CareerStatus is the player's career tier. Tiers only ever increase.
type CareerStatus int

const (
	Employee CareerStatus = iota
	Freelancer
	Owner
)

func (c CareerStatus) String() string {
	switch c {
	case Employee:
		return "employee"
	case Freelancer:
		return "freelancer"
	case Owner:
		return "owner"
	}
	return fmt.Sprintf("CareerStatus(%d)", int(c))
}

// Label is the human readable title shown in the HUD
func (c CareerStatus) Label() string {
	switch c {
	case Employee:
		return "Employee Driver"
	case Freelancer:
		return "Freelance Driver"
	case Owner:
		return "Company Owner"
	}
	return "Unknown"
}

// MarshalText encodes the tier by name
func (c CareerStatus) MarshalText() ([]byte, error) {
	switch c {
	case Employee, Freelancer, Owner:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("unknown career status %d", int(c))
}

// UnmarshalText decodes a tier name
func (c *CareerStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "employee":
		*c = Employee
	case "freelancer":
		*c = Freelancer
	case "owner":
		*c = Owner
	default:
		return fmt.Errorf("unknown career status %q", string(b))
	}
	return nil
}

// ZoneKind names a speed-limit zone
type ZoneKind int

const (
	MainRoad ZoneKind = iota
	Residential
	Commercial
)

func (z ZoneKind) String() string {
	switch z {
	case MainRoad:
		return "main_road"
	case Residential:
		return "residential"
	case Commercial:
		return "commercial"
	}
	return fmt.Sprintf("ZoneKind(%d)", int(z))
}

// MarshalText encodes the zone by name
func (z ZoneKind) MarshalText() ([]byte, error) {
	switch z {
	case MainRoad, Residential, Commercial:
		return []byte(z.String()), nil
	}
	return nil, fmt.Errorf("unknown zone kind %d", int(z))
}

// UnmarshalText decodes a zone name
func (z *ZoneKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "main_road":
		*z = MainRoad
	case "residential":
		*z = Residential
	case "commercial":
		*z = Commercial
	default:
		return fmt.Errorf("unknown zone kind %q", string(b))
	}
	return nil
}

// Axis selects the coordinate a speed zone band is tested against
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// MarshalText encodes the axis as "x" or "y"
func (a Axis) MarshalText() ([]byte, error) {
	switch a {
	case AxisX, AxisY:
		return []byte(a.String()), nil
	}
	return nil, fmt.Errorf("unknown axis %d", int(a))
}

// UnmarshalText decodes "x" or "y"
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "x":
		*a = AxisX
	case "y":
		*a = AxisY
	default:
		return fmt.Errorf("unknown axis %q", string(b))
	}
	return nil
}

// CustomerPhase is the state of the current ride request
type CustomerPhase int

const (
	PhaseIdle CustomerPhase = iota
	PhaseWaitingForPickup
	PhaseInTransit
	PhaseDelivered
)

func (p CustomerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaitingForPickup:
		return "waiting_for_pickup"
	case PhaseInTransit:
		return "in_transit"
	case PhaseDelivered:
		return "delivered"
	}
	return fmt.Sprintf("CustomerPhase(%d)", int(p))
}

// MarshalText encodes the phase by name
func (p CustomerPhase) MarshalText() ([]byte, error) {
	switch p {
	case PhaseIdle, PhaseWaitingForPickup, PhaseInTransit, PhaseDelivered:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown customer phase %d", int(p))
}

// UnmarshalText decodes a phase name
func (p *CustomerPhase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*p = PhaseIdle
	case "waiting_for_pickup":
		*p = PhaseWaitingForPickup
	case "in_transit":
		*p = PhaseInTransit
	case "delivered":
		*p = PhaseDelivered
	default:
		return fmt.Errorf("unknown customer phase %q", string(b))
	}
	return nil
}
