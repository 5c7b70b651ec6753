package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "default", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in city", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil || defaultConfig.Name != engine.DefaultGameConfig().Name {
			t.Errorf("Expected built-in default config, got %+v", defaultConfig)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "classic", createValidConfig())

	small := createValidConfig()
	small.Name = "Small"
	small.World = engine.WorldConfig{Width: 2000, Height: 2000}
	writeConfigFile(t, dir, "small", small)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Small" || config.World.Width != 2000 {
			t.Errorf("Unexpected config %q %v", config.Name, config.World)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("small.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		plain, _ := manager.LoadConfig("small")
		if config != plain {
			t.Error("Expected both names to share one cache entry")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		for _, name := range []string{"../secrets", "a/b", ""} {
			if _, err := manager.LoadConfig(name); !errors.Is(err, ErrInvalidName) {
				t.Errorf("LoadConfig(%q) error = %v, want ErrInvalidName", name, err)
			}
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": ""}`) // Missing required fields
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for malformed JSON, got %v", err)
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("prefers classic", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic City"
		writeConfigFile(t, dir, "classic", classic)
		writeConfigFile(t, dir, "another", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Classic City" {
			t.Errorf("Expected default config 'Classic City', got '%s'", got)
		}
	})

	t.Run("falls back to first valid file", func(t *testing.T) {
		dir := t.TempDir()
		first := createValidConfig()
		first.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", first)
		writeConfigFile(t, dir, "beta", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Alpha" {
			t.Errorf("Expected default config 'Alpha', got '%s'", got)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())
		other := createValidConfig()
		other.Name = "Other"
		writeConfigFile(t, dir, "other", other)

		manager, _ := NewManager(dir)
		if err := manager.SetDefault("other"); err != nil {
			t.Fatalf("SetDefault() error = %v", err)
		}
		if manager.GetDefault().Name != "Other" {
			t.Errorf("Expected SetDefault to switch the default")
		}
		if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("SetDefault(missing) error = %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"small", "Small"},
		{"medium", "Medium"},
		{"large", "Large"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Ignored: not JSON, and invalid JSON
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	wantOrder := []string{"classic", "large", "medium", "small"}
	for i, info := range configList {
		if info.ConfigID != wantOrder[i] {
			t.Errorf("configList[%d] = %s, want %s", i, info.ConfigID, wantOrder[i])
		}
		if info.Destinations != len(engine.DefaultGameConfig().Destinations) {
			t.Errorf("%s: %d destinations", info.ConfigID, info.Destinations)
		}
		if info.WorldWidth == 0 || info.Filename != info.ConfigID+".json" {
			t.Errorf("%s: incomplete info %+v", info.ConfigID, info)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	saved := createValidConfig()
	saved.Name = "Saved"
	if err := manager.SaveConfig("saved", saved); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("expected saved.json on disk: %v", err)
	}

	loaded, err := manager.LoadConfig("saved")
	if err != nil || loaded.Name != "Saved" {
		t.Errorf("LoadConfig(saved) = %v, %v", loaded, err)
	}

	invalid := createValidConfig()
	invalid.Destinations = invalid.Destinations[:1]
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SaveConfig(invalid) error = %v, want ErrInvalidConfig", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "invalid.json")); !os.IsNotExist(err) {
		t.Error("invalid configs must not be written")
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "classic", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if manager.GetDefault().Name != "Changeable" {
		t.Fatalf("unexpected default %q", manager.GetDefault().Name)
	}

	config.Name = "Changed"
	writeConfigFile(t, dir, "classic", config)

	// Cached until refreshed
	cached, _ := manager.LoadConfig("classic")
	if cached.Name != "Changeable" {
		t.Errorf("Expected cached config, got %q", cached.Name)
	}

	manager.RefreshCache()
	if manager.GetDefault().Name != "Changed" {
		t.Errorf("Expected refreshed default, got %q", manager.GetDefault().Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.Count())
	}
}
