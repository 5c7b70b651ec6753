package engine

import "fmt"

// GarageAction names a purchase
type GarageAction string

const (
	ActionRefuel       GarageAction = "refuel"
	ActionRepair       GarageAction = "repair"
	ActionBuyVehicle   GarageAction = "buy_vehicle"
	ActionStartCompany GarageAction = "start_company"
)

// PurchaseResult reports what a garage action did. Refusals are not errors.
type PurchaseResult struct {
	Applied bool         `json:"applied"`
	Action  GarageAction `json:"action"`
	Cost    int          `json:"cost"`
	Reason  string       `json:"reason,omitempty"`
}

// Refuel fills the tank up to targetPercent if the driver can pay for it
func (e *GameEngine) Refuel(targetPercent float64) PurchaseResult {
	target := clampPercent(targetPercent)
	if target <= e.state.Fuel {
		return refused(ActionRefuel, 0, "tank already at or above target")
	}
	cost := e.config.Economy.RefuelCost(e.state.Fuel, target)
	if cost > e.state.Money {
		return refused(ActionRefuel, cost, fmt.Sprintf("refuel costs $%d, you have $%d", cost, e.state.Money))
	}
	e.state.Fuel = target
	return e.charge(ActionRefuel, cost, fmt.Sprintf("Refueled to %.0f%% for $%d", target, cost))
}

// Repair restores condition up to targetPercent if the driver can pay for it
func (e *GameEngine) Repair(targetPercent float64) PurchaseResult {
	target := clampPercent(targetPercent)
	if target <= e.state.CarCondition {
		return refused(ActionRepair, 0, "condition already at or above target")
	}
	cost := e.config.Economy.RepairCost(e.state.CarCondition, target)
	if cost > e.state.Money {
		return refused(ActionRepair, cost, fmt.Sprintf("repair costs $%d, you have $%d", cost, e.state.Money))
	}
	e.state.CarCondition = target
	return e.charge(ActionRepair, cost, fmt.Sprintf("Repaired to %.0f%% for $%d", target, cost))
}

// BuyVehicle turns an employee into a freelancer driving their own car
func (e *GameEngine) BuyVehicle() PurchaseResult {
	cost := e.config.Economy.VehiclePrice
	switch {
	case e.state.OwnsVehicle:
		return refused(ActionBuyVehicle, cost, "you already own a vehicle")
	case e.state.CareerStatus != Employee:
		return refused(ActionBuyVehicle, cost, "only employees can buy a first vehicle")
	case cost > e.state.Money:
		return refused(ActionBuyVehicle, cost, fmt.Sprintf("a vehicle costs $%d, you have $%d", cost, e.state.Money))
	}
	e.state.OwnsVehicle = true
	e.state.CareerStatus = Freelancer
	return e.charge(ActionBuyVehicle, cost, "Bought a vehicle. You are now a freelance driver")
}

// StartCompany promotes a freelancer with a vehicle to company owner
func (e *GameEngine) StartCompany() PurchaseResult {
	cost := e.config.Economy.CompanyPrice
	switch {
	case !e.state.OwnsVehicle || e.state.CareerStatus != Freelancer:
		return refused(ActionStartCompany, cost, "you need to be a freelancer with your own vehicle")
	case cost > e.state.Money:
		return refused(ActionStartCompany, cost, fmt.Sprintf("a company costs $%d, you have $%d", cost, e.state.Money))
	}
	e.state.CareerStatus = Owner
	return e.charge(ActionStartCompany, cost, "Started a taxi company. You are now a company owner")
}

func (e *GameEngine) charge(action GarageAction, cost int, msg string) PurchaseResult {
	e.state.Money -= cost
	e.state.TotalSpent += cost
	e.record(EventPurchase, msg, cost, "")
	e.logger.Info().Str("action", string(action)).Int("cost", cost).Int("money", e.state.Money).Msg("garage purchase")
	e.refreshCareerHints()
	return PurchaseResult{Applied: true, Action: action, Cost: cost}
}

func refused(action GarageAction, cost int, reason string) PurchaseResult {
	return PurchaseResult{Action: action, Cost: cost, Reason: reason}
}
