// Package mcp provides a Model Context Protocol tool server for the taxi game.
//
// The server is a thin proxy: every tool calls the REST API and renders the
// JSON answer as text an agent can read.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - game_state: snapshot plus navigation towards the current target
//   - drive: hold one input for N frames, optionally stopping on events
//   - refuel, repair, buy_vehicle, start_company: garage purchases
//   - reset_game: start over
//   - event_history: paginated events, filterable by type
//   - list_destinations, list_configs, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: JSON-RPC messages posted to /mcp are handled by GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
