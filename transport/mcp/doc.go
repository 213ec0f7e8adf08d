// Package mcp provides a Model Context Protocol server for the Racetrack Game.
//
// The package is a thin proxy: every tool call is forwarded to the REST
// API server over HTTP, and the JSON responses are rendered as plain text
// formatted for AI agents.
//
// MCP Tools:
//
// The package exposes the following tools:
//   - racing_instructions: Full rules and driving strategy
//   - list_tracks: List available race tracks
//   - create_race: Create a race session with track and car strategies
//   - list_races: List active race sessions
//   - get_race: Get session details
//   - race_state: Current grid, car positions/velocities, turn info
//   - play_turn: One acceleration for the car whose turn it is
//   - bulk_turns: A sequence of accelerations in one call
//   - auto_play: Let bound strategies drive until the race is decided
//   - reset_race: Put every car back on its start marker
//   - race_history: Paginated resolved-turn history
//
// Session Management:
//
// Race tools take a session_id parameter so agents can run several races
// concurrently. The play_turn and bulk_turns tools accept an optional
// intent argument, a free-text explanation of the plan behind the move
// that nudges agents into reasoning about inertia before committing.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Drive cars turn by turn against strategy-driven rivals
//   - Queue whole acceleration plans with bulk_turns
//   - Watch strategy-vs-strategy races with auto_play
//   - Analyze grids, braking distances, and rival positions
//   - Review resolved turns from the history
package mcp
