// Package validate checks city configuration JSON files beyond what the engine
// requires to load them. It checks:
//   - JSON structure and the engine's own validation
//   - Pickup zones lie inside the world and can be reached by the taxi's body
//   - Pickup zones do not overlap and the taxi does not start inside one
//   - Messages are present
//   - The economy lets a player progress through every career tier
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make a config invalid; Warnings are playability concerns; Info is the summary.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// File loads and validates a single configuration JSON file
func File(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	Config(&config, &result)
	return result
}

// Config validates an already decoded configuration into result
func Config(config *engine.GameConfig, result *ValidationResult) {
	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return
	}

	checkZones(config, result)
	checkMessages(config, result)
	checkEconomy(config, result)

	if result.Valid {
		summarize(config, result)
	}
}

// checkZones verifies every pickup zone is inside the world and reachable by
// the centre of the taxi, which stays BodyRadius away from the walls
func checkZones(config *engine.GameConfig, result *ValidationResult) {
	r := config.Tuning.BodyRadius
	drivable := engine.Rect{
		X:      r,
		Y:      r,
		Width:  config.World.Width - 2*r,
		Height: config.World.Height - 2*r,
	}

	for _, d := range config.Destinations {
		z := d.PickupZone
		if z.X < 0 || z.Y < 0 || z.X+z.Width > config.World.Width || z.Y+z.Height > config.World.Height {
			result.fail("Pickup zone of %s extends outside the %.0fx%.0f world", d.ID, config.World.Width, config.World.Height)
			continue
		}
		if !overlaps(z, drivable) {
			result.fail("Pickup zone of %s cannot be reached by a taxi of radius %.0f", d.ID, r)
		}
		if z.Contains(config.Start.Position) {
			result.warn("Taxi starts inside the pickup zone of %s", d.ID)
		}
	}

	for i := 0; i < len(config.Destinations); i++ {
		for j := i + 1; j < len(config.Destinations); j++ {
			a, b := config.Destinations[i], config.Destinations[j]
			if overlaps(a.PickupZone, b.PickupZone) {
				result.warn("Pickup zones of %s and %s overlap", a.ID, b.ID)
			}
		}
	}
}

func overlaps(a, b engine.Rect) bool {
	return a.X <= b.X+b.Width && b.X <= a.X+a.Width &&
		a.Y <= b.Y+b.Height && b.Y <= a.Y+a.Height
}

func checkMessages(config *engine.GameConfig, result *ValidationResult) {
	m := config.Messages
	required := []struct {
		key   string
		value string
	}{
		{"welcome", m.Welcome},
		{"customer_waiting", m.CustomerWaiting},
		{"customer_in_taxi", m.CustomerInTaxi},
		{"looking_for_ride", m.LookingForRide},
		{"out_of_fuel", m.OutOfFuel},
		{"can_afford_car", m.CanAffordCar},
		{"can_start_company", m.CanStartCompany},
	}
	for _, msg := range required {
		if msg.value == "" {
			result.warn("Missing message: %s (built-in text is used)", msg.key)
		}
	}
}

func checkEconomy(config *engine.GameConfig, result *ValidationResult) {
	e := config.Economy
	if e.FuelPerDistance == 0 {
		result.warn("fuel_per_distance is 0: the taxi never runs out of fuel")
	}
	if e.CompanyPrice < e.VehiclePrice {
		result.warn("company_price ($%d) is below vehicle_price ($%d)", e.CompanyPrice, e.VehiclePrice)
	}
	if e.TicketChance > 0 && e.TicketCost == 0 {
		result.warn("ticket_chance is set but tickets are free")
	}

	// A full tank must be affordable from a handful of fares or the player can get stuck
	fullTank := int(math.Ceil(engine.MaxPercent * e.FuelPricePerPercent))
	if fullTank > 5*e.Payments.Employee {
		result.warn("a full tank costs $%d, more than five employee fares", fullTank)
	}
}

// ridesFor returns the rides needed at fare to save price
func ridesFor(price, fare int) int {
	if price <= 0 {
		return 0
	}
	return (price + fare - 1) / fare
}

func summarize(config *engine.GameConfig, result *ValidationResult) {
	counts := map[engine.DestinationType]int{}
	for _, d := range config.Destinations {
		counts[d.Type]++
	}
	e := config.Economy

	result.info("✓ Name: %s", config.Name)
	result.info("✓ World: %.0fx%.0f", config.World.Width, config.World.Height)
	result.info("✓ Destinations: %d (stores %d, houses %d, apartments %d)",
		len(config.Destinations), counts[engine.Store], counts[engine.House], counts[engine.Apartment])
	result.info("✓ Speed zones: %d (main road limit %.0f)", len(e.SpeedZones), e.MainRoadLimit)
	result.info("✓ Fares: $%d / $%d / $%d", e.Payments.Employee, e.Payments.Freelancer, e.Payments.Owner)
	result.info("✓ Own car after %d rides, company after %d more",
		ridesFor(e.VehiclePrice, e.Payments.Employee), ridesFor(e.CompanyPrice, e.Payments.Freelancer))
}

// Dir validates every *.json file in dir, sorted by name
func Dir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files found in %s", dir)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Report prints a concise report and returns whether every config is valid
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}
