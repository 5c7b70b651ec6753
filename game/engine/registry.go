package engine

import (
	"fmt"
	"math/rand"
)

// Registry is the fixed set of destinations of a city
type Registry struct {
	destinations []Destination
	byID         map[string]int
}

// NewRegistry builds a registry, rejecting cities that could never produce a ride
func NewRegistry(destinations []Destination) (*Registry, error) {
	if len(destinations) < MinDestinations {
		return nil, fmt.Errorf("%w: got %d", ErrRegistryTooSmall, len(destinations))
	}

	r := &Registry{
		destinations: make([]Destination, len(destinations)),
		byID:         make(map[string]int, len(destinations)),
	}
	copy(r.destinations, destinations)

	for i, d := range r.destinations {
		if d.ID == "" {
			return nil, fmt.Errorf("destination %d has no id", i+1)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDestination, d.ID)
		}
		r.byID[d.ID] = i
	}
	return r, nil
}

// All returns a copy of every destination in registry order
func (r *Registry) All() []Destination {
	out := make([]Destination, len(r.destinations))
	copy(out, r.destinations)
	return out
}

// Len returns the number of destinations
func (r *Registry) Len() int {
	return len(r.destinations)
}

// ByID looks up a destination by id
func (r *Registry) ByID(id string) (Destination, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Destination{}, false
	}
	return r.destinations[i], true
}

// Random picks a destination uniformly
func (r *Registry) Random(rng *rand.Rand) Destination {
	return r.destinations[rng.Intn(len(r.destinations))]
}

// RandomExcluding picks uniformly among destinations whose id differs from excludeID
func (r *Registry) RandomExcluding(rng *rand.Rand, excludeID string) (Destination, error) {
	skip, ok := r.byID[excludeID]
	if !ok {
		return Destination{}, fmt.Errorf("%w: %s", ErrUnknownDestination, excludeID)
	}
	i := rng.Intn(len(r.destinations) - 1)
	if i >= skip {
		i++
	}
	return r.destinations[i], nil
}

// ContainsPoint reports whether p lies inside the destination's drop-off zone
func ContainsPoint(p Vec2, d Destination) bool {
	return d.PickupZone.Contains(p)
}
