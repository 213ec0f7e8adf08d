// Package websocket provides real-time race watching over WebSocket.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Race state broadcasting after every resolved turn
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing. The hub's session map is
// only touched from the Run loop; registration, unregistration, and
// broadcasts all flow through channels.
//
// Message Protocol:
//
// Messages are JSON-encoded and one-directional. Watchers receive:
//
//	{"session_id": "abc1", "event": "race_update", "race_state": {...}}
//
// Incoming messages are ignored; turns are played through the REST API
// or MCP tools, never over the socket.
//
// Session Integration:
//
// Clients connect to /ws/sessions/{id} and receive only the updates of
// that race. Multiple watchers per session are supported.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a turn resolves:
//	hub.BroadcastToSession(sessionID, state)
package websocket
