package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/racetrack-game/game/engine"
	"github.com/wricardo/racetrack-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Racetrack Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Racetrack Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Drive a car across a finish line in the required direction before the rival
cars. Cars have inertia: each turn you adjust velocity by at most 1 per axis,
and the car sweeps its whole movement line. Hitting a wall or a live rival
anywhere on that line is a crash.

AVAILABLE TOOLS:
- racing_instructions: Full rules and driving strategy, read this first
- list_tracks: List available tracks
- create_race: Create a race session, optionally binding car strategies
- list_races: List active race sessions
- get_race: Get session details
- race_state: Current grid, cars, and turn info
- play_turn: One acceleration for the current car - requires intent explanation
- bulk_turns: A sequence of accelerations - requires intent explanation
- auto_play: Let bound strategies drive until the race is decided
- reset_race: Back to the starting grid
- race_history: View resolved turns

NOTE: The 'intent' parameter on play_turn/bulk_turns serves as rubber duck
debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_race",
		Description: "Create a new race session with optional track selection and car strategies",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"track_id": map[string]interface{}{
					"type":        "string",
					"description": "Name of the track to race on (optional, defaults to the server's default track)",
				},
				"strategies": map[string]interface{}{
					"type":        "object",
					"description": "Car strategies keyed by car id, e.g. {\"a\": \"path_finder\", \"b\": \"do_not_move\"}. Cars without a strategy are driven through play_turn.",
				},
			},
		},
	}, c.handleCreateRace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_races",
		Description: "List all active race sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRaces)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_race",
		Description: "Get details of a specific race session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetRace)

	// Race operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "race_state",
		Description: "Get the current race state: grid, car positions and velocities, whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRaceState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_turn",
		Description: "Resolve one turn for the car whose turn it is, accelerating in the given direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"move": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right", "up_left", "up_right", "down_left", "down_right", "none"},
					"description": "Acceleration to apply (omit to let the car's bound strategy choose)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the race before the turn",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlayTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_turns",
		Description: "Resolve a sequence of turns, each acceleration applying to whichever car's turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Accelerations (up/down/left/right/up_left/up_right/down_left/down_right/none); an empty string defers to that car's bound strategy",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of turns (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the race before playing",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkTurns)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_play",
		Description: "Drive the race with the cars' bound strategies until it is decided or a turn cap is hit",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"max_turns": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum turns to resolve (optional, capped by the server)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAutoPlay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_race",
		Description: "Reset the race: cars back on their start markers, strategies rebound",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleResetRace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "race_history",
		Description: "Get the resolved turn history of a race",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRaceHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_tracks",
		Description: "List available race tracks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListTracks)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "racing_instructions",
		Description: "Get comprehensive racing instructions, rules, and driving strategy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRacingInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateRace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	trackID, _ := args["track_id"].(string)

	body := map[string]interface{}{}
	if trackID != "" {
		body["track_id"] = trackID
	}
	if raw, ok := args["strategies"].(map[string]interface{}); ok {
		strategies := make(map[string]string, len(raw))
		for carID, spec := range raw {
			if s, ok := spec.(string); ok {
				strategies[carID] = s
			}
		}
		if len(strategies) > 0 {
			body["strategies"] = strategies
		}
	}

	var info service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created race: %s\nTrack: %s\n\n%s",
		info.ID, info.TrackName, formatRaceState(info.RaceState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Races (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Track: %s, Created: %s)\n",
			s.ID, s.TrackName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleRaceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.RaceState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRaceState(&state)), nil
}

func (c *Client) handlePlayTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	move, _ := args["move"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"move":  move,
		"reset": reset,
	}

	var result service.TurnResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/turn", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleBulkTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert moves to string array
	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkTurnResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/turns", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkResult(sessionID, &result)), nil
}

func (c *Client) handleAutoPlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if maxTurns, ok := args["max_turns"].(float64); ok {
		body["max_turns"] = int(maxTurns)
	}

	var result service.BulkTurnResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/autoplay", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkResult(sessionID, &result)), nil
}

func (c *Client) handleResetRace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.RaceState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatRaceState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRaceHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListTracks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var tracks []service.TrackInfo
	err := c.apiCall("GET", "/api/tracks", nil, &tracks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Tracks:\n\n"
	for _, track := range tracks {
		result += fmt.Sprintf("• %s\n  Grid: %dx%d, Cars: %d\n\n",
			track.TrackID, track.Width, track.Height, track.CarCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRacingInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🏎 Racetrack Game - Complete Instructions

GAME OBJECTIVE:
Cross a finish line cell moving in its required direction before the rival
cars do. If every rival crashes first, the last car still driving wins.

GAME MECHANICS:
• Each car has a position and a velocity, both integer grid vectors
• On a car's turn it picks an acceleration: -1, 0, or +1 per axis (nine
  choices including none)
• Velocity is persistent. The acceleration adjusts it, then the car sweeps
  in a straight line from its old position to position+velocity
• Touching a wall or a live rival anywhere along that line is a crash
• A crashed car is out for good: it freezes where it hit and its cell stops
  blocking the road
• Crashing does not end the race for the others

GRID LEGEND:
• # - wall (impassable)
• (space) - open road
• > < ^ v - finish line cells and their required crossing direction
• a-i - car starting positions
• X - a crashed car (does NOT block)

FINISH DIRECTION:
You only win if your velocity agrees with the arrow when you touch the
finish cell: crossing > while moving right, ^ while moving up, and so on.
Drifting over the line backwards or sideways does not count, and does not
crash you either - the car just keeps going.

MOVEMENT COMMANDS:
up, down, left, right, up_left, up_right, down_left, down_right, none
Numpad mapping: 8=up 2=down 4=left 6=right 7=up_left 9=up_right
1=down_left 3=down_right 5=none

🤖 AI AGENTS - DRIVING STRATEGIES:

⚠️ RESPECT INERTIA (MOST COMMON FAILURE POINT):
Velocity carries over between turns. At speed k you need k turns of full
braking, covering k(k+1)/2 more cells, before you stop. From distance d to
a wall your speed must stay at or below the largest k with k(k+1)/2 <= d:
distance 1 allows speed 1, distance 3 allows speed 2, distance 6 allows
speed 3. Accelerating toward a wall you cannot brake away from is the
single most common crash.

🗺️ PLAN THE WHOLE LINE:
Each turn moves you |velocity| cells and every swept cell must be clear.
A 3-cell gap is not enough at speed 5. Parse the grid row by row before
committing to a speed.

🏁 CORNER EARLY:
Start bending your velocity before the corner, not in it. Diagonal
accelerations let you carry speed through wide turns.

🚗 WATCH RIVALS:
Live cars block your whole movement line, and they move between your
turns. Wrecks (X) do not block - drive straight over them.

🎮 API USAGE BEST PRACTICES:
- Use bulk_turns for a pre-computed acceleration sequence rather than one
  play_turn call per turn
- Bind strategies at create_race ({"a": "path_finder"}) and use auto_play
  to let the server drive
- path_finder plans a shortest-turn route to the finish; move_list:FILE
  replays a fixed sequence; do_not_move coasts; path_follower:FILE chases
  waypoints from a file
- Check race_state after every bulk call, rivals may have changed the road

🚨 CRITICAL PITFALLS TO AVOID:
- ❌ Accelerating beyond your braking distance
- ❌ Crossing the finish line in the wrong direction and expecting a win
- ❌ Forgetting that the whole movement line is swept, not just the
  destination cell
- ❌ Routing around a wreck that does not actually block

SESSION MANAGEMENT:
- Multiple races can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state and turn order
- reset_race puts every car back on its start marker and rebinds strategies

Remember: the race is won in the braking zones. Good luck! 🏁`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nTrack: %s\nCreated: %s\n",
		info.ID, info.TrackName, info.CreatedAt.Format("2006-01-02 15:04:05")))

	if len(info.Strategies) > 0 {
		ids := make([]string, 0, len(info.Strategies))
		for id := range info.Strategies {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		b.WriteString("Strategies:\n")
		for _, id := range ids {
			b.WriteString(fmt.Sprintf("- %s: %s\n", id, info.Strategies[id]))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatRaceState(info.RaceState))
	return b.String()
}

func formatRaceState(state *engine.RaceState) string {
	if state == nil {
		return "No race state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Turn: %d | Current car: %s | Cars: %d\n\n",
		state.TotalTurns, state.CurrentCarID, len(state.Cars)))

	// Car roster
	for _, car := range state.Cars {
		line := fmt.Sprintf("- %s pos=(%d,%d) vel=(%d,%d)",
			car.ID, car.Position.X, car.Position.Y, car.Velocity.X, car.Velocity.Y)
		if car.Crashed {
			line += " 💥 crashed"
		}
		result.WriteString(line + "\n")
	}
	result.WriteString("\n")

	// Grid with cars overlaid
	for _, row := range state.Grid {
		result.WriteString(row + "\n")
	}

	// Status
	if !state.Running {
		if state.Winner != "" {
			result.WriteString(fmt.Sprintf("\n🏁 WINNER: car %s", state.Winner))
		} else {
			result.WriteString("\n💥 EVERY CAR CRASHED - no winner")
		}
	}

	return result.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder

	switch result.Outcome {
	case service.OutcomeCrashed:
		b.WriteString(fmt.Sprintf("💥 Car %s crashed (turn %d, move %s)\n", result.CarID, result.Turn, result.Move))
	case service.OutcomeWon:
		b.WriteString(fmt.Sprintf("🏁 Car %s crossed the finish line (turn %d)\n", result.CarID, result.Turn))
	default:
		b.WriteString(fmt.Sprintf("✓ Car %s accelerated %s (turn %d)\n", result.CarID, result.Move, result.Turn))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatRaceState(result.RaceState))
	return b.String()
}

func formatBulkResult(sessionID string, result *service.BulkTurnResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Session: %s\n", sessionID))
	b.WriteString(fmt.Sprintf("Executed %d/%d turns\n", result.TurnsExecuted, result.TurnsRequested))
	if result.StopReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StopReason))
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the %d-turn cap\n", result.Limit))
	}

	if len(result.Turns) > 0 {
		b.WriteString("\nTurns (this call):\n")
		for _, step := range result.Turns {
			b.WriteString(formatTurnStep(step))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatRaceState(result.RaceState))
	return b.String()
}

// formatTurnStep renders a single compact turn line
func formatTurnStep(step service.TurnStep) string {
	return fmt.Sprintf("%d. car %s %s %s (%d,%d)→(%d,%d) vel=(%d,%d)\n",
		step.Turn, step.CarID, step.Move, step.Outcome,
		step.From.X, step.From.Y, step.To.X, step.To.Y,
		step.Velocity.X, step.Velocity.Y)
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Turn History (Page %d/%d) | Total turns: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	if len(history.Turns) == 0 {
		return result + "(no turns resolved yet)"
	}

	for _, step := range history.Turns {
		result += formatTurnStep(step)
	}

	return result
}
