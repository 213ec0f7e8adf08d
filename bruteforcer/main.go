package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type CarState struct {
	ID       string `json:"id"`
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
	Crashed  bool   `json:"crashed"`
}

type RaceState struct {
	Grid            []string   `json:"grid"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Cars            []CarState `json:"cars"`
	CurrentCarIndex int        `json:"current_car_index"`
	CurrentCarID    string     `json:"current_car_id"`
	WinnerIndex     int        `json:"winner_index"`
	Winner          string     `json:"winner,omitempty"`
	Running         bool       `json:"running"`
	TotalTurns      int        `json:"total_turns"`
}

type SessionResponse struct {
	ID        string     `json:"id"`
	TrackName string     `json:"track_name"`
	RaceState *RaceState `json:"race_state"`
}

type TrackDetail struct {
	TrackID  string   `json:"track_id"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	CarCount int      `json:"car_count"`
	Grid     []string `json:"grid"`
}

type TurnResult struct {
	Turn      int        `json:"turn"`
	CarID     string     `json:"car_id"`
	Move      string     `json:"move"`
	Outcome   string     `json:"outcome"`
	RaceState *RaceState `json:"race_state"`
}

type BulkTurnResult struct {
	TurnsRequested int        `json:"turns_requested"`
	TurnsExecuted  int        `json:"turns_executed"`
	StopReason     string     `json:"stop_reason,omitempty"`
	Message        string     `json:"message,omitempty"`
	RaceState      *RaceState `json:"race_state"`
}

type Client struct {
	baseURL   string
	sessionID string
	trackName string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(trackID string) (*RaceState, error) {
	var reqBody []byte
	var err error

	if trackID != "" {
		reqBody, err = json.Marshal(map[string]string{"track_id": trackID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	c.trackName = session.TrackName
	return session.RaceState, nil
}

func (c *Client) GetState() (*RaceState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	c.trackName = session.TrackName
	return session.RaceState, nil
}

// GetTrack fetches the bare track layout, without cars overlaid, for
// the session's track.
func (c *Client) GetTrack() (*TrackDetail, error) {
	url := fmt.Sprintf("%s/api/tracks/%s", c.baseURL, c.trackName)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get track failed: %s - %s", resp.Status, string(body))
	}

	var track TrackDetail
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return nil, fmt.Errorf("parse track: %w", err)
	}

	return &track, nil
}

func (c *Client) PlayTurn(move string) (*TurnResult, error) {
	body, err := json.Marshal(map[string]string{"move": move})
	if err != nil {
		return nil, fmt.Errorf("marshal turn: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/turn", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("play turn: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("turn failed: %s - %s", resp.Status, string(raw))
	}

	var result TurnResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse turn response: %w", err)
	}

	return &result, nil
}

func (c *Client) PlayTurns(moves []string) (*BulkTurnResult, error) {
	body, err := json.Marshal(map[string]interface{}{"moves": moves})
	if err != nil {
		return nil, fmt.Errorf("marshal turns: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/turns", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("play turns: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("turns failed: %s - %s", resp.Status, string(raw))
	}

	var result BulkTurnResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse turns response: %w", err)
	}

	return &result, nil
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *RaceState `json:"state"`
}

func (c *Client) Reset() (*RaceState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Race server URL")
	trackID := flag.String("track", "", "Track to race on (default server default)")
	carID := flag.String("car", "", "Car to drive (default first car on the track)")
	continueSession := flag.String("continue", "", "Resume an existing session by ID")
	maxTurns := flag.Int("max-turns", 3000, "Maximum turns per attempt")
	maxAttempts := flag.Int("max-attempts", 20, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between turn cycles in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to race server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *RaceState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		// Use explicitly provided session
		savedSessionID = *continueSession
	} else {
		// Try to load saved session
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		// Resume existing session
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = "" // Force create new
		} else {
			log.Printf("Session resumed - Track: %s, Grid: %dx%d, Cars: %d",
				client.trackName, state.Width, state.Height, len(state.Cars))
		}
	}

	if savedSessionID == "" {
		// Create new session
		state, err = client.CreateSession(*trackID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)
		log.Printf("Track: %s, Grid: %dx%d, Cars: %d",
			client.trackName, state.Width, state.Height, len(state.Cars))

		// Save session ID for next run
		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	// RESET the race at the beginning of each run
	log.Printf("🔄 Resetting race...")
	state, err = client.Reset()
	if err != nil {
		log.Fatalf("Failed to reset race: %v", err)
	}

	// Pick the car we drive
	ourCar := *carID
	if ourCar == "" {
		ourCar = state.Cars[0].ID
	}
	found := false
	for _, car := range state.Cars {
		if car.ID == ourCar {
			found = true
			break
		}
	}
	if !found {
		log.Fatalf("No car %q on this track", ourCar)
	}
	log.Printf("Driving car %s against %d rivals", ourCar, len(state.Cars)-1)

	// Plan over the bare track layout; rivals coast in place each turn,
	// so their start cells are the only moving-obstacle model we need.
	track, err := client.GetTrack()
	if err != nil {
		log.Fatalf("Failed to fetch track: %v", err)
	}
	planner := NewLinePlanner(track.Grid)

	// Keep trying until victory or max attempts
	attemptNum := 0
	for attemptNum < *maxAttempts {
		attemptNum++

		// Reset the race for this attempt
		if attemptNum > 1 {
			state, err = client.Reset()
			if err != nil {
				log.Printf("Failed to reset: %v", err)
				break
			}
		}

		log.Printf("\n=== 🏎  Attempt %d/%d ===", attemptNum, *maxAttempts)

		plan := planner.Plan(state, ourCar)
		if plan == nil {
			log.Printf("❌ No winning line found for car %s", ourCar)
			break
		}
		log.Printf("📋 Planned line: %d moves", len(plan))
		if *verbose {
			log.Printf("   %v", plan)
		}

		// Drive the plan. Rivals get explicit coast moves on their turns.
		turnCount := 0
		planIndex := 0
		crashed := false
		won := false

		for state.Running && turnCount < *maxTurns {
			if state.CurrentCarID == ourCar {
				if planIndex >= len(plan) {
					log.Printf("⚠️  Plan exhausted with the race still running")
					break
				}

				result, err := client.PlayTurn(plan[planIndex])
				if err != nil {
					log.Printf("Turn failed: %v", err)
					break
				}
				planIndex++
				turnCount++
				state = result.RaceState

				if *verbose {
					pos, vel := carVectors(state, ourCar)
					log.Printf("Turn %d: %s -> pos=(%d,%d) vel=(%d,%d)",
						result.Turn, result.Move, pos.X, pos.Y, vel.X, vel.Y)
				}

				if result.Outcome == "won" && result.CarID == ourCar {
					won = true
					break
				}
				if result.Outcome == "crashed" && result.CarID == ourCar {
					crashSite, _ := carVectors(state, ourCar)
					log.Printf("💥 Crashed at (%d,%d) on move %d - banning that cell",
						crashSite.X, crashSite.Y, planIndex)
					planner.BanCell(crashSite)
					crashed = true
					break
				}
			} else {
				// Burn through the rival turns between ours in one call
				coasts := rivalTurnsUntilOurs(state, ourCar)
				if coasts == 0 {
					break
				}
				moves := make([]string, coasts)
				for i := range moves {
					moves[i] = "none"
				}

				result, err := client.PlayTurns(moves)
				if err != nil {
					log.Printf("Rival turns failed: %v", err)
					break
				}
				turnCount += result.TurnsExecuted
				state = result.RaceState

				if result.StopReason == "won" && state.Winner != ourCar {
					log.Printf("🏳️  Car %s won instead", state.Winner)
					break
				}
			}

			// Add delay if specified
			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: Turns=%d, Plan=%d/%d moves",
			attemptNum, turnCount, planIndex, len(plan))

		// Check if we won
		if won || state.Winner == ourCar {
			log.Printf("\n🏁 VICTORY! Car %s won in attempt %d after %d moves!", ourCar, attemptNum, planIndex)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}

		if !crashed {
			// Not a crash, so another attempt with the same model won't
			// plan any better
			break
		}
	}

	// Failed to win after all attempts
	log.Printf("\n❌ Failed to win after %d attempts", attemptNum)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}

// carVectors returns the position and velocity of the named car.
func carVectors(state *RaceState, carID string) (Vector, Vector) {
	for _, car := range state.Cars {
		if car.ID == carID {
			return car.Position, car.Velocity
		}
	}
	return Vector{}, Vector{}
}

// rivalTurnsUntilOurs counts how many active cars take a turn before
// carID is up again, starting from the current car inclusive.
func rivalTurnsUntilOurs(state *RaceState, carID string) int {
	count := 0
	n := len(state.Cars)
	for offset := 0; offset < n; offset++ {
		car := state.Cars[(state.CurrentCarIndex+offset)%n]
		if car.Crashed {
			continue
		}
		if car.ID == carID {
			return count
		}
		count++
	}
	return count
}
