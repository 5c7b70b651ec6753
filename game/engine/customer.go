package engine

import (
	"fmt"
	"time"
)

// Phase derives the customer phase from the state and the respawn queue
func (e *GameEngine) Phase() CustomerPhase {
	switch {
	case e.state.HasCustomer:
		return PhaseInTransit
	case e.state.CustomerPickupLocation != nil:
		return PhaseWaitingForPickup
	case e.queue.Pending(ScheduledRespawn):
		return PhaseDelivered
	default:
		return PhaseIdle
	}
}

// fireDue runs every scheduled event whose deadline has passed
func (e *GameEngine) fireDue() {
	for _, ev := range e.queue.PopDue(e.clock.Now()) {
		switch ev.Kind {
		case ScheduledRespawn:
			if e.state.HasCustomer {
				e.record(EventRespawnDropped, "Respawn skipped, a customer is already aboard", 0, e.state.RideID)
				continue
			}
			e.assignRide()
		}
	}
}

// stepCustomer advances the ride by at most one transition
func (e *GameEngine) stepCustomer() {
	switch e.Phase() {
	case PhaseIdle:
		e.assignRide()
	case PhaseWaitingForPickup:
		pickup := e.state.CustomerPickupLocation
		if e.body.Position.Sub(pickup.Position).Len() < e.config.Tuning.PickupRadius {
			e.state.HasCustomer = true
			e.record(EventPickup, fmt.Sprintf("Picked up customer at %s", pickup.Name), 0, e.state.RideID)
			e.logger.Debug().Str("ride", e.state.RideID).Str("pickup", pickup.ID).Msg("customer aboard")
		}
	case PhaseInTransit:
		dropoff := e.state.CustomerDropoffLocation
		if ContainsPoint(e.body.Position, *dropoff) && e.state.CurrentSpeed < e.config.Tuning.StopSpeedThreshold {
			e.deliver(*dropoff)
		}
	}
}

// assignRide draws a fresh pickup and a different dropoff.
// A ride assigned over a waiting one replaces it.
func (e *GameEngine) assignRide() {
	pickup := e.registry.Random(e.rng)
	dropoff, err := e.registry.RandomExcluding(e.rng, pickup.ID)
	if err != nil {
		e.logger.Error().Err(err).Msg("could not draw dropoff")
		return
	}
	e.state.CustomerPickupLocation = &pickup
	e.state.CustomerDropoffLocation = &dropoff
	e.state.HasCustomer = false
	e.state.RideID = e.newID()
	e.record(EventCustomerSpawned,
		fmt.Sprintf("Customer waiting at %s, going to %s", pickup.Name, dropoff.Name), 0, e.state.RideID)
}

func (e *GameEngine) deliver(dropoff Destination) {
	fare := e.config.Economy.PaymentFor(e.state.CareerStatus)
	rideID := e.state.RideID

	e.state.Money += fare
	e.state.TotalEarnings += fare
	e.state.Score = e.state.TotalEarnings
	e.state.CompletedRides++
	e.state.HasCustomer = false
	e.state.CustomerPickupLocation = nil
	e.state.CustomerDropoffLocation = nil
	e.state.RideID = ""

	delay := time.Duration(e.config.Tuning.RespawnDelayMs) * time.Millisecond
	e.queue.Schedule(ScheduledRespawn, e.clock.Now().Add(delay))

	e.record(EventDropoff, fmt.Sprintf("Delivered to %s, earned $%d", dropoff.Name, fare), fare, rideID)
	e.logger.Info().
		Str("ride", rideID).
		Int("fare", fare).
		Int("money", e.state.Money).
		Int("rides", e.state.CompletedRides).
		Msg("ride completed")

	e.refreshCareerHints()
}

// refreshCareerHints recomputes the garage signals and records newly unlocked ones.
// The hints never change the career tier.
func (e *GameEngine) refreshCareerHints() {
	eco := e.config.Economy
	canCar := !e.state.OwnsVehicle && e.state.Money >= eco.VehiclePrice
	canCompany := e.state.OwnsVehicle && e.state.CareerStatus == Freelancer && e.state.Money >= eco.CompanyPrice

	if canCar && !e.state.CanAffordCar {
		e.record(EventCareerHint, orDefault(e.config.Messages.CanAffordCar, "You can afford your own car"), eco.VehiclePrice, "")
	}
	if canCompany && !e.state.CanStartCompany {
		e.record(EventCareerHint, orDefault(e.config.Messages.CanStartCompany, "You can start your own company"), eco.CompanyPrice, "")
	}
	e.state.CanAffordCar = canCar
	e.state.CanStartCompany = canCompany
}
