package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/racetrack-game/game/engine"
)

var (
	ErrRaceOver        = errors.New("race already decided")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidStrategy = errors.New("invalid strategy")
	ErrNoTracks        = errors.New("no tracks available")
)

// RaceService defines all race-related operations.
type RaceService interface {
	// Track catalog
	ListTracks(ctx context.Context) ([]*TrackInfo, error)
	GetTrack(ctx context.Context, name string) (*TrackDetail, error)

	// Session management
	CreateSession(ctx context.Context, trackName string, strategies map[string]string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Race operations
	PlayTurn(ctx context.Context, sessionID, move string) (*TurnResult, error)
	PlayTurns(ctx context.Context, sessionID string, moves []string) (*BulkTurnResult, error)
	AutoPlay(ctx context.Context, sessionID string, maxTurns int) (*BulkTurnResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.RaceState, error)

	// Race state
	GetRaceState(ctx context.Context, sessionID string) (*engine.RaceState, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id, trackName string, track *engine.Track, strategies map[string]string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// TrackManager handles race track loading.
type TrackManager interface {
	LoadTrack(name string) (*engine.Track, error)
	ListTracks() ([]*TrackInfo, error)
	DefaultTrackName() string
}

// Session represents an active race session. The mutex serializes turn
// resolution per session; distinct sessions race independently.
type Session struct {
	ID             string
	TrackName      string
	Track          *engine.Track
	Game           *engine.Game
	Strategies     map[string]string
	History        []TurnStep
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}
