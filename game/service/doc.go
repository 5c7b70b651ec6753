// Package service provides the business logic layer for the taxi game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration loading through a ConfigManager
//   - Single frame ticks, bulk drives and real-time play
//   - Garage purchases and career progression
//   - Paginated event history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Engines are not safe for concurrent use, so every tick and
// purchase runs under the service lock.
//
// Each session owns a ManualClock. Every tick moves it forward by the real
// elapsed time before the engine runs, so scheduled events such as the
// customer respawn fire after game time has passed. A session driven only
// through Drive advances one frame per tick and never depends on wall time.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Hold the throttle for one second of frames
//	result, err := gameService.Drive(ctx, sessionInfo.ID, service.DriveRequest{
//		Input: engine.InputState{Forward: true},
//		Ticks: 60,
//	})
//
// Real-time play:
//
// SetInput marks a session live and stores the held keys. The runner calls
// TickLive at a fixed rate and every live session is ticked with its held
// input. Pause takes the session off the runner.
package service
