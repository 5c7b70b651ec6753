// Package api provides HTTP REST API handlers for the taxi game.
//
// The api package implements:
//   - Session management endpoints
//   - Driving endpoints (single ticks, batched drives, held input for live play)
//   - Garage purchases
//   - Configuration listing and upload
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=accessed|created|earnings&order=&limit=)
//   - GET /api/sessions/unified - Leaderboard view (?sessionIds=a,b or ?configName=)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Driving:
//   - GET /api/sessions/{id}/state - Snapshot and navigation (?screen_width=&screen_height=)
//   - POST /api/sessions/{id}/tick - One step ({"input": {...}, "elapsed_ms": 16})
//   - POST /api/sessions/{id}/drive - Many fixed steps with one input
//   - POST /api/sessions/{id}/input - Hold input; the server ticks the session in real time
//   - POST /api/sessions/{id}/pause - Stop real-time ticking
//   - POST /api/sessions/{id}/reset - Start over
//   - GET /api/sessions/{id}/history - Events (?page=&limit=&order=&type=)
//   - GET /api/sessions/{id}/destinations - The city's stores and homes
//
// Garage:
//   - POST /api/sessions/{id}/garage/refuel - {"target": 100}
//   - POST /api/sessions/{id}/garage/repair - {"target": 100}
//   - POST /api/sessions/{id}/garage/buy-vehicle
//   - POST /api/sessions/{id}/garage/start-company
//
// A purchase the garage refuses answers 409 with the reason.
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration
//
// Errors are returned as {"error": "..."}: unknown sessions and configs map to 404,
// malformed requests to 400.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
