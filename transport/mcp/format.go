package mcp

import (
	"fmt"
	"math"
	"strings"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
)

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\nLive: %v\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"),
		session.Live)
	if session.Snapshot != nil {
		result += "\n" + formatSnapshot(session.Snapshot, nil)
	}
	return result
}

func formatSnapshot(snap *engine.Snapshot, nav *engine.Navigation) string {
	if snap == nil {
		return "No game state available"
	}
	var b strings.Builder
	s := snap.State

	if snap.Stranded {
		b.WriteString("⛽ OUT OF FUEL - refuel to keep driving\n\n")
	}

	fmt.Fprintf(&b, "Objective: %s\n", snap.Objective)
	fmt.Fprintf(&b, "Phase: %s\n", snap.Phase)
	if s.HasCustomer && s.CustomerDropoffLocation != nil {
		fmt.Fprintf(&b, "Customer: on board, going to %s (%s)\n", s.CustomerDropoffLocation.Name, s.CustomerDropoffLocation.ID)
	} else if s.CustomerPickupLocation != nil {
		fmt.Fprintf(&b, "Customer: waiting at %s (%s)\n", s.CustomerPickupLocation.Name, s.CustomerPickupLocation.ID)
	}

	fmt.Fprintf(&b, "\nPosition: (%.1f, %.1f)  Heading: %.0f°  Speed: %.1f\n",
		snap.Vehicle.Position.X, snap.Vehicle.Position.Y, degrees(snap.Vehicle.Heading), snap.Vehicle.Speed())
	fmt.Fprintf(&b, "Zone: %s  Limit: %.0f", s.SpeedZone, s.SpeedLimit)
	if s.IsSpeeding {
		b.WriteString("  ⚠️ SPEEDING")
	}
	b.WriteString("\n")

	if nav != nil {
		fmt.Fprintf(&b, "Navigation: %s is %.0f away, turn %s (%.0f°)\n",
			nav.TargetName, nav.Distance, nav.Turn, degrees(nav.TurnBy))
	}

	fmt.Fprintf(&b, "\nMoney: $%d  Earnings: $%d  Spent: $%d\n", s.Money, s.TotalEarnings, s.TotalSpent)
	fmt.Fprintf(&b, "Fuel: %.1f%%  Condition: %.1f%%\n", s.Fuel, s.CarCondition)
	fmt.Fprintf(&b, "Career: %s  Rides: %d  Tickets: %d\n", s.CareerStatus.Label(), s.CompletedRides, s.TotalTickets)

	if s.CanAffordCar {
		b.WriteString("💡 You can afford your own car (buy_vehicle)\n")
	}
	if s.CanStartCompany {
		b.WriteString("💡 You can start a company (start_company)\n")
	}
	fmt.Fprintf(&b, "Tick: %d\n", snap.TickCount)

	return b.String()
}

func formatDriveResult(result *service.DriveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Drove %d/%d ticks", result.TicksExecuted, result.RequestedTicks)
	if result.Truncated {
		fmt.Fprintf(&b, " (request truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s", result.StoppedReason)
		if result.StoppedOnTick > 0 {
			fmt.Fprintf(&b, " on tick %d", result.StoppedOnTick)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Moved (%.1f, %.1f) -> (%.1f, %.1f), distance %.1f\n",
		result.StartPosition.X, result.StartPosition.Y,
		result.EndPosition.X, result.EndPosition.Y, result.Distance)
	fmt.Fprintf(&b, "Money %+d, Fuel %+.1f\n", result.MoneyDelta, result.FuelDelta)

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, e := range result.Events {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(&result.Snapshot, result.Navigation))
	return b.String()
}

func formatPurchase(result *service.PurchaseResponse) string {
	var b strings.Builder
	if result.Applied {
		fmt.Fprintf(&b, "✅ %s done for $%d\n", result.Action, result.Cost)
	} else {
		fmt.Fprintf(&b, "❌ %s refused: %s", result.Action, result.Reason)
		if result.Cost > 0 {
			fmt.Fprintf(&b, " (costs $%d)", result.Cost)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatSnapshot(&result.Snapshot, nil))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Event History (Page %d/%d, Total: %d events):\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, e := range history.Events {
		line := fmt.Sprintf("Tick %d: %s - %s", e.Tick, e.Type, e.Message)
		if e.Amount != 0 {
			line += fmt.Sprintf(" ($%d)", e.Amount)
		}
		result += line + "\n"
	}

	if history.HasNext {
		result += "\n(more events on the next page)\n"
	}
	return result
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
