package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

func testConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Destinations = []engine.Destination{
		{ID: "a", Type: engine.Store, Position: engine.Vec2{X: 0, Y: 0}},
		{ID: "b", Type: engine.House, Position: engine.Vec2{X: 300, Y: 400}},
		{ID: "c", Type: engine.Apartment, Position: engine.Vec2{X: 600, Y: 800}},
	}
	config.Economy.FuelPerDistance = 0.1
	config.Economy.FuelPricePerPercent = 1
	config.Economy.Payments.Employee = 60
	return config
}

func TestTrips(t *testing.T) {
	got := trips(testConfig().Destinations)
	if len(got) != 3 {
		t.Fatalf("Expected 3 trips, got %d", len(got))
	}
	if got[0].From != "a" || got[0].To != "b" || got[0].Distance != 500 {
		t.Errorf("Unexpected first trip: %+v", got[0])
	}
}

func TestAnalyze(t *testing.T) {
	a := analyze(testConfig())

	if a.Range != 1000 {
		t.Errorf("Expected range 1000, got %f", a.Range)
	}
	if a.Longest.From != "a" || a.Longest.To != "c" || a.Longest.Distance != 1000 {
		t.Errorf("Unexpected longest trip: %+v", a.Longest)
	}
	if len(a.OutOfRange) != 0 {
		t.Errorf("Expected every trip in range, got %+v", a.OutOfRange)
	}
	// a->c costs 100 of fuel against a 60 fare
	if len(a.Unprofitable) != 1 || a.Unprofitable[0].To != "c" {
		t.Errorf("Expected a->c to be unprofitable, got %+v", a.Unprofitable)
	}
}

func TestAnalyze_OutOfRange(t *testing.T) {
	config := testConfig()
	config.Economy.FuelPerDistance = 0.2

	a := analyze(config)
	if a.Range != 500 {
		t.Errorf("Expected range 500, got %f", a.Range)
	}
	if len(a.OutOfRange) != 1 {
		t.Errorf("Expected one trip out of range, got %+v", a.OutOfRange)
	}
}

func TestPrintAnalysis(t *testing.T) {
	config := testConfig()
	config.Economy.FuelPerDistance = 0

	var out bytes.Buffer
	printAnalysis(&out, analyze(config))

	for _, want := range []string{"Range: unlimited", "Longest trip: a -> c (1000)", "Every trip fits", "Every trip pays"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, out.String())
		}
	}
}
