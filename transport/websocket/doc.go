// Package websocket provides WebSocket transport for the taxi game.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Session-aware WebSocket connections
//   - State broadcasting after every live tick
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing. Broadcasts are queued on a
// buffered channel and never block the caller; when the queue is full the
// message is dropped.
//
// Message Protocol:
//
//   - Incoming: {"type": "input", "input": {"forward": true, "left": false, ...}}
//   - Incoming: {"type": "pause"}
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "snapshot": {...}, "events": [...]}
//   - Outgoing: {"session_id": "ab12", "event": "error", "data": "..."}
//
// Incoming messages are passed to the InputHandler given to NewHub. Input
// messages hold keys down until the next message arrives.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12) when
// establishing the connection. State updates are sent only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub(func(sessionID string, msg websocket.ClientMessage) error {
//		return gameService.SetInput(ctx, sessionID, msg.Input)
//	})
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
