// Package api provides the HTTP REST surface of the racing server.
//
// The api package implements:
//   - RESTful endpoints for race sessions and turns
//   - Track catalog endpoints
//   - WebSocket upgrade handling for race watchers
//   - Static file serving
//
// Endpoints:
//
// Tracks:
//   - GET /api/tracks - List available tracks
//   - GET /api/tracks/{name} - Track detail with the grid layout
//
// Session Management:
//   - POST /api/sessions - Create a race session
//   - GET /api/sessions - List sessions (sort, order, limit)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Race Operations:
//   - GET /api/sessions/{id}/state - Current race state
//   - POST /api/sessions/{id}/turn - Resolve one turn
//   - POST /api/sessions/{id}/turns - Resolve a batch of moves
//   - POST /api/sessions/{id}/autoplay - Drive bound strategies
//   - POST /api/sessions/{id}/reset - Back to the starting grid
//   - GET /api/sessions/{id}/history - Paginated turn history
//
// Watching:
//   - GET /ws/sessions/{id} - WebSocket upgrade, race_update pushes
//
// Request/Response Format:
//
// All endpoints accept and return JSON.
//
// Creating a session:
//
//	{
//	  "track_id": "oval",
//	  "strategies": {"a": "path_finder", "b": "move_list:moves/oval-b.txt"}
//	}
//
// Playing a turn. An empty body (or empty move) asks the current car's
// bound strategy for the move; reset rebuilds the race first:
//
//	{
//	  "move": "up_right",
//	  "reset": false
//	}
//
// Bulk turns take {"moves": ["right", "right", ""]}, autoplay takes
// {"max_turns": 100}.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "session ab12: session not found"
//	}
//
// Unknown sessions and tracks are 404, malformed moves and strategies
// 400, turns against a decided race 409, and a full session table 429.
package api
