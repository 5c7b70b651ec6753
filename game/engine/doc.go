// Package engine provides the simulation core of the taxi game.
//
// The engine implements one session's frame loop:
//   - Vehicle kinematics (damped thrust, brake, steering, world bounds)
//   - Fuel and wear consumption, speed zones and speeding tickets
//   - The customer ride cycle from spawn to pickup to paid delivery
//   - Garage purchases and career progression
//
// Core Types:
//
// The Engine interface defines the contract, implemented by GameEngine.
// GameState is the authoritative session state and is only written by the
// engine. Readers get a Snapshot, a deep copy that never aliases engine
// memory. GameConfig describes a city (destinations, zones, tuning, prices)
// and is loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := gameEngine.Tick(engine.InputState{Forward: true}, time.Second/60)
//	fmt.Println(result.Snapshot.Objective)
//
// Timing:
//
// Each Tick takes the real time elapsed since the previous frame. Physics
// steps are clamped to one sixtieth of a second, so slow frames slow the
// game down rather than making the taxi jump. The delay between a delivery
// and the next customer is a scheduled event polled by Tick against the
// engine's Clock; tests inject a ManualClock to control it.
//
// Concurrency:
//
// A GameEngine is single-threaded. Callers must serialize Tick and the
// garage methods (the service layer holds a lock around both).
package engine
