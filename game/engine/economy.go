package engine

import (
	"math"
	"math/rand"
)

// FuelDelta is the fuel percentage burnt over distance
func (e Economy) FuelDelta(distance float64) float64 {
	return distance * e.FuelPerDistance
}

// ConditionDelta is the car condition lost over distance. Speeding adds extra wear.
func (e Economy) ConditionDelta(distance float64, speeding bool) float64 {
	wear := distance * e.WearPerDistance
	if speeding {
		wear += distance * e.ExtraWearRate
	}
	return wear
}

// PaymentFor returns the fare paid per completed ride for a career tier
func (e Economy) PaymentFor(status CareerStatus) int {
	switch status {
	case Freelancer:
		return e.Payments.Freelancer
	case Owner:
		return e.Payments.Owner
	default:
		return e.Payments.Employee
	}
}

// SpeedLimitAt returns the zone and limit at pos. The first matching zone wins.
func (e Economy) SpeedLimitAt(pos Vec2) (ZoneKind, float64) {
	for _, z := range e.SpeedZones {
		if z.Band.Matches(pos) {
			return z.Kind, z.Limit
		}
	}
	return MainRoad, e.MainRoadLimit
}

// IsSpeeding reports whether speed is over the limit by more than the tolerance
func (e Economy) IsSpeeding(speed, limit float64) bool {
	return speed > limit+e.TicketThreshold
}

// RollTicket decides whether a speeding tick gets caught.
// The roll happens once per tick, so the effective rate depends on the frame rate.
func (e Economy) RollTicket(rng *rand.Rand) bool {
	return rng.Float64() < e.TicketChance
}

// RefuelCost prices topping fuel up from current to target percent
func (e Economy) RefuelCost(current, target float64) int {
	return priceFor(current, target, e.FuelPricePerPercent)
}

// RepairCost prices repairing condition from current to target percent
func (e Economy) RepairCost(current, target float64) int {
	return priceFor(current, target, e.RepairPricePerPercent)
}

func priceFor(current, target, rate float64) int {
	needed := clampPercent(target) - clampPercent(current)
	if needed <= 0 {
		return 0
	}
	return int(math.Ceil(needed * rate))
}

// clampPercent maps v into [0,100]. NaN counts as empty.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(MaxPercent, v))
}
