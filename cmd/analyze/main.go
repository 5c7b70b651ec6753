// Command analyze prints quick, human-readable heuristics about the city
// configurations in a configs directory. It summarizes the world and the
// destinations, the taxi's range on a full tank, and highlights trips that a
// full tank cannot cover or that cost more fuel than the fare pays.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

// Trip is a straight-line ride between two destinations
type Trip struct {
	From     string
	To       string
	Distance float64
}

// Analysis holds the derived numbers for one config
type Analysis struct {
	Name         string
	Destinations int
	Range        float64 // distance on a full tank, 0 when fuel is free
	Longest      Trip
	OutOfRange   []Trip
	Unprofitable []Trip
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No config files found in %s\n", dir)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := engine.LoadGameConfig(file)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analyze(config))
	}
}

func analyze(config *engine.GameConfig) Analysis {
	e := config.Economy
	a := Analysis{
		Name:         config.Name,
		Destinations: len(config.Destinations),
	}
	if e.FuelPerDistance > 0 {
		a.Range = engine.MaxPercent / e.FuelPerDistance
	}

	for _, trip := range trips(config.Destinations) {
		if trip.Distance > a.Longest.Distance {
			a.Longest = trip
		}
		if a.Range > 0 && trip.Distance > a.Range {
			a.OutOfRange = append(a.OutOfRange, trip)
		}
		// The employee fare is the cheapest one
		if fuelCost(trip.Distance, e) > float64(e.Payments.Employee) {
			a.Unprofitable = append(a.Unprofitable, trip)
		}
	}
	return a
}

// trips lists each pair of destinations once, in config order
func trips(destinations []engine.Destination) []Trip {
	var out []Trip
	for i := 0; i < len(destinations); i++ {
		for j := i + 1; j < len(destinations); j++ {
			from, to := destinations[i], destinations[j]
			out = append(out, Trip{
				From:     from.ID,
				To:       to.ID,
				Distance: engine.Distance(from.Position, to.Position),
			})
		}
	}
	return out
}

func fuelCost(distance float64, e engine.Economy) float64 {
	return distance * e.FuelPerDistance * e.FuelPricePerPercent
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Destinations: %d\n", a.Destinations)
	if a.Range == 0 {
		fmt.Fprintf(w, "Range: unlimited (fuel is free)\n")
	} else {
		fmt.Fprintf(w, "Range on a full tank: %.0f\n", a.Range)
	}
	fmt.Fprintf(w, "Longest trip: %s -> %s (%.0f)\n", a.Longest.From, a.Longest.To, a.Longest.Distance)

	if len(a.OutOfRange) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d trips are longer than a full tank!\n", len(a.OutOfRange))
		for i, t := range a.OutOfRange {
			if i < 5 {
				fmt.Fprintf(w, "   Out of range: %s -> %s (%.0f)\n", t.From, t.To, t.Distance)
			}
		}
		if len(a.OutOfRange) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.OutOfRange)-5)
		}
	} else {
		fmt.Fprintf(w, "✅ Every trip fits in a full tank\n")
	}

	if len(a.Unprofitable) > 0 {
		fmt.Fprintf(w, "⚠️  %d trips burn more fuel than an employee fare pays\n", len(a.Unprofitable))
	} else {
		fmt.Fprintf(w, "✅ Every trip pays for its fuel\n")
	}
}
