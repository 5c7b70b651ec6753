// Package config provides configuration management for the taxi game.
//
// The config package handles:
//   - Loading city configurations from JSON files
//   - Configuration validation through the engine
//   - Default configuration management
//   - Configuration discovery and listing
//   - Process settings from the environment
//
// Configuration Format:
//
// City configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - World size and the taxi's start position
//   - The destination registry (stores, houses, apartments with pickup zones)
//   - Vehicle tuning and customer timing
//   - The economy: consumption, fares, speed zones, tickets and garage prices
//   - Messages shown for objectives and career hints
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//
//	// Load specific configuration
//	cityConfig, err := manager.LoadConfig("compact")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
// The default is classic.json when present, otherwise the first valid file,
// otherwise the city built into the engine.
//
// Settings:
//
// ReadSettings parses host, port, tick rate, session expiry, log level and
// ngrok options from environment variables.
package config
