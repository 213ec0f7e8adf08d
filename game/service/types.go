package service

import (
	"time"

	"github.com/wricardo/racetrack-game/game/engine"
)

// Turn outcomes as reported in TurnResult and TurnStep.
const (
	OutcomeMoved   = "moved"
	OutcomeCrashed = "crashed"
	OutcomeWon     = "won"
)

// Stop reasons for bulk and automatic play.
const (
	StopWon         = "won"
	StopAllCrashed  = "all_crashed"
	StopOutOfMoves  = "out_of_moves"
	StopNoStrategy  = "no_strategy"
	StopInvalidMove = "invalid_move"
	StopTurnLimit   = "turn_limit"
)

// MaxBulkTurns caps how many turns a single bulk or auto-play call may
// resolve.
const MaxBulkTurns = 500

// SessionInfo provides information about a race session.
type SessionInfo struct {
	ID             string            `json:"id"`
	TrackName      string            `json:"track_name"`
	Strategies     map[string]string `json:"strategies,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	RaceState      *engine.RaceState `json:"race_state"`
}

// TurnResult contains the result of a single resolved turn.
type TurnResult struct {
	Turn      int               `json:"turn"`
	CarID     string            `json:"car_id"`
	Move      string            `json:"move"`
	Outcome   string            `json:"outcome"`
	RaceState *engine.RaceState `json:"race_state"`
	Events    []RaceEvent       `json:"events,omitempty"`
}

// BulkTurnResult contains the result of a bulk or auto-play call.
type BulkTurnResult struct {
	TurnsRequested int               `json:"turns_requested"`
	TurnsExecuted  int               `json:"turns_executed"`
	StopReason     string            `json:"stop_reason,omitempty"`
	Message        string            `json:"message,omitempty"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Turns          []TurnStep        `json:"turns,omitempty"`
	Events         []RaceEvent       `json:"events"`
	RaceState      *engine.RaceState `json:"race_state"`
}

// TurnStep is a compact record of one resolved turn, kept in the
// session history and echoed in bulk results.
type TurnStep struct {
	Turn     int           `json:"turn"`
	CarID    string        `json:"car_id"`
	Move     string        `json:"move"`
	Outcome  string        `json:"outcome"`
	From     engine.Vector `json:"from"`
	To       engine.Vector `json:"to"`
	Velocity engine.Vector `json:"velocity"`
}

// RaceEvent represents an event that occurred while resolving turns.
type RaceEvent struct {
	Type      string        `json:"type"` // "moved", "crashed", "won", "reset"
	CarID     string        `json:"car_id,omitempty"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  engine.Vector `json:"position"`
}

// HistoryOptions configures turn history retrieval.
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history.
type HistoryResponse struct {
	Turns       []TurnStep `json:"turns"`
	TotalTurns  int        `json:"total_turns"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	TotalPages  int        `json:"total_pages"`
	HasNext     bool       `json:"has_next"`
	HasPrevious bool       `json:"has_previous"`
}

// TrackInfo provides catalog information about a race track.
type TrackInfo struct {
	Filename string `json:"filename"`
	TrackID  string `json:"track_id"` // The identifier to use for session creation
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	CarCount int    `json:"car_count"`
}

// TrackDetail is a full track description including its layout.
type TrackDetail struct {
	TrackInfo
	Grid   []string `json:"grid"`
	CarIDs []string `json:"car_ids"`
}
