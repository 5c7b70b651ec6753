package validate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

func writeConfig(t *testing.T, dir, name string, config interface{}) string {
	t.Helper()
	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestFile_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "city.json", engine.DefaultGameConfig())

	result := File(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "city.json" {
		t.Errorf("Expected file name city.json, got %s", result.File)
	}
	if !hasMessage(result.Info, "Name: classic") {
		t.Errorf("Expected name in info, got %v", result.Info)
	}
	if !hasMessage(result.Info, "Own car after") {
		t.Errorf("Expected career progression in info, got %v", result.Info)
	}
}

func TestFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	os.WriteFile(path, []byte(`{"name": "test", invalid json}`), 0644)

	result := File(path)
	if result.Valid {
		t.Error("Expected invalid result for broken JSON")
	}
	if !hasMessage(result.Errors, "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got %v", result.Errors)
	}
}

func TestFile_Missing(t *testing.T) {
	result := File(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid || !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read failure, got %+v", result)
	}
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *engine.GameConfig)
		expected string
	}{
		{
			name:     "engine validation",
			mutate:   func(c *engine.GameConfig) { c.Destinations = c.Destinations[:1] },
			expected: "at least two destinations",
		},
		{
			name: "zone outside world",
			mutate: func(c *engine.GameConfig) {
				c.Destinations[0].PickupZone.X = c.World.Width - 10
			},
			expected: "extends outside",
		},
		{
			name: "zone hugging the wall",
			mutate: func(c *engine.GameConfig) {
				c.Tuning.BodyRadius = 30
				c.Destinations[0].PickupZone = engine.Rect{X: 0, Y: 0, Width: 10, Height: 10}
			},
			expected: "cannot be reached",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := engine.DefaultGameConfig()
			tt.mutate(config)

			result := ValidationResult{Valid: true}
			Config(config, &result)

			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasMessage(result.Errors, tt.expected) {
				t.Errorf("Expected error containing %q, got %v", tt.expected, result.Errors)
			}
			if len(result.Info) != 0 {
				t.Errorf("Invalid configs get no summary, got %v", result.Info)
			}
		})
	}
}

func TestConfig_Warnings(t *testing.T) {
	config := engine.DefaultGameConfig()
	config.Messages.Welcome = ""
	config.Economy.FuelPerDistance = 0
	config.Economy.CompanyPrice = config.Economy.VehiclePrice - 1
	config.Destinations[1].PickupZone = config.Destinations[0].PickupZone
	config.Start.Position = engine.Vec2{
		X: config.Destinations[0].PickupZone.X + 1,
		Y: config.Destinations[0].PickupZone.Y + 1,
	}

	result := ValidationResult{Valid: true}
	Config(config, &result)

	if !result.Valid {
		t.Fatalf("Warnings must not invalidate a config: %v", result.Errors)
	}
	for _, want := range []string{
		"Missing message: welcome",
		"never runs out of fuel",
		"below vehicle_price",
		"overlap",
		"starts inside the pickup zone of " + config.Destinations[0].ID,
	} {
		if !hasMessage(result.Warnings, want) {
			t.Errorf("Expected warning %q, got %v", want, result.Warnings)
		}
	}
}

func TestRidesFor(t *testing.T) {
	tests := []struct {
		price, fare, expected int
	}{
		{0, 50, 0},
		{100, 50, 2},
		{101, 50, 3},
		{49, 50, 1},
	}
	for _, tt := range tests {
		if got := ridesFor(tt.price, tt.fare); got != tt.expected {
			t.Errorf("ridesFor(%d, %d) = %d, want %d", tt.price, tt.fare, got, tt.expected)
		}
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "b_good.json", engine.DefaultGameConfig())
	bad := engine.DefaultGameConfig()
	bad.Name = ""
	writeConfig(t, dir, "a_bad.json", bad)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a_bad.json" || results[0].Valid {
		t.Errorf("Expected a_bad.json first and invalid, got %+v", results[0])
	}
	if !results[1].Valid {
		t.Errorf("Expected b_good.json valid, got %v", results[1].Errors)
	}

	var out bytes.Buffer
	if Report(&out, results) {
		t.Error("Report should fail when a config is invalid")
	}
	if !strings.Contains(out.String(), "❌ INVALID") || !strings.Contains(out.String(), "✅ VALID") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}
}

func TestDir_Empty(t *testing.T) {
	if _, err := Dir(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without configs")
	}
}

func TestShippedConfigs(t *testing.T) {
	if _, err := os.Stat("../configs"); os.IsNotExist(err) {
		t.Skip("configs directory not found")
	}

	results, err := Dir("../configs")
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s is invalid: %v", result.File, result.Errors)
		}
	}
}
