package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/racetrack-game/game/engine"
	"github.com/wricardo/racetrack-game/game/strategy"
)

// raceServiceImpl implements the RaceService interface.
type raceServiceImpl struct {
	sessions SessionManager
	tracks   TrackManager
	// strategyDir resolves relative move list and waypoint file paths
	// in strategy specs.
	strategyDir string
}

// NewRaceService creates a new race service instance.
func NewRaceService(sessions SessionManager, tracks TrackManager, strategyDir string) RaceService {
	return &raceServiceImpl{
		sessions:    sessions,
		tracks:      tracks,
		strategyDir: strategyDir,
	}
}

// ListTracks returns the available race tracks.
func (s *raceServiceImpl) ListTracks(ctx context.Context) ([]*TrackInfo, error) {
	return s.tracks.ListTracks()
}

// GetTrack returns a full track description including its layout.
func (s *raceServiceImpl) GetTrack(ctx context.Context, name string) (*TrackDetail, error) {
	track, err := s.tracks.LoadTrack(name)
	if err != nil {
		return nil, err
	}

	starts := track.CarStarts()
	ids := make([]string, len(starts))
	for i, start := range starts {
		ids[i] = string(start.ID)
	}

	return &TrackDetail{
		TrackInfo: TrackInfo{
			Filename: name + ".txt",
			TrackID:  name,
			Width:    track.Width(),
			Height:   track.Height(),
			CarCount: len(starts),
		},
		Grid:   track.Rows(),
		CarIDs: ids,
	}, nil
}

// CreateSession creates a new race session on the named track, binding
// a move strategy to each car listed in strategies. Cars without an
// entry are driven turn by turn through PlayTurn.
func (s *raceServiceImpl) CreateSession(ctx context.Context, trackName string, strategies map[string]string) (*SessionInfo, error) {
	if trackName == "" {
		trackName = s.tracks.DefaultTrackName()
		if trackName == "" {
			return nil, ErrNoTracks
		}
	}

	track, err := s.tracks.LoadTrack(trackName)
	if err != nil {
		if infos, listErr := s.tracks.ListTracks(); listErr == nil && len(infos) > 0 {
			ids := make([]string, len(infos))
			for i, info := range infos {
				ids[i] = info.TrackID
			}
			return nil, fmt.Errorf("%w (available tracks: %s)", err, strings.Join(ids, ", "))
		}
		return nil, err
	}

	// Let the session manager generate a proper 4-character ID.
	sess, err := s.sessions.Create("", trackName, track, strategies)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.bindStrategies(sess); err != nil {
		s.sessions.Delete(sess.ID)
		return nil, err
	}

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information.
func (s *raceServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions.
func (s *raceServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session.
func (s *raceServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// PlayTurn resolves one turn for the car whose turn it is. With a
// non-empty move the car accelerates that way; with an empty move the
// car's bound strategy is asked.
func (s *raceServiceImpl) PlayTurn(ctx context.Context, sessionID, move string) (*TurnResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.playOneTurn(sess, move)
}

// PlayTurns resolves the given moves in order, each applying to
// whichever car's turn it is. An empty string in moves defers to that
// car's bound strategy. Play stops at the first invalid move, exhausted
// strategy, or race end; the result says how far it got.
func (s *raceServiceImpl) PlayTurns(ctx context.Context, sessionID string, moves []string) (*BulkTurnResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := &BulkTurnResult{
		TurnsRequested: len(moves),
		Events:         make([]RaceEvent, 0),
	}
	if len(moves) > MaxBulkTurns {
		result.Truncated = true
		result.Limit = MaxBulkTurns
		moves = moves[:MaxBulkTurns]
	}

	for i, move := range moves {
		if !sess.Game.IsRunning() {
			break
		}
		turn, err := s.playOneTurn(sess, move)
		if err != nil {
			result.StopReason = stopReasonForError(err)
			result.Message = fmt.Sprintf("turn %d: %v", i+1, err)
			break
		}
		result.TurnsExecuted++
		result.Turns = append(result.Turns, sess.History[len(sess.History)-1])
		result.Events = append(result.Events, turn.Events...)
	}

	s.finalizeBulk(sess, result, "")
	return result, nil
}

// AutoPlay resolves turns using the cars' bound strategies until the
// race is decided, a strategy runs dry, or maxTurns have been played.
func (s *raceServiceImpl) AutoPlay(ctx context.Context, sessionID string, maxTurns int) (*BulkTurnResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := &BulkTurnResult{Events: make([]RaceEvent, 0)}
	if maxTurns <= 0 {
		maxTurns = MaxBulkTurns
	} else if maxTurns > MaxBulkTurns {
		result.Truncated = true
		result.Limit = MaxBulkTurns
		maxTurns = MaxBulkTurns
	}
	result.TurnsRequested = maxTurns

	for i := 0; i < maxTurns; i++ {
		if !sess.Game.IsRunning() {
			break
		}
		turn, err := s.playOneTurn(sess, "")
		if err != nil {
			result.StopReason = stopReasonForError(err)
			result.Message = fmt.Sprintf("turn %d: %v", i+1, err)
			break
		}
		result.TurnsExecuted++
		result.Turns = append(result.Turns, sess.History[len(sess.History)-1])
		result.Events = append(result.Events, turn.Events...)
	}

	s.finalizeBulk(sess, result, StopTurnLimit)
	return result, nil
}

// Reset rebuilds the session's race from its track: cars back on their
// start markers, strategies rebound fresh, history cleared.
func (s *raceServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.RaceState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Game = engine.NewGame(sess.Track)
	sess.History = nil
	if err := s.bindStrategies(sess); err != nil {
		return nil, fmt.Errorf("rebind strategies: %w", err)
	}

	return sess.Game.GetState(), nil
}

// GetRaceState retrieves the current race state.
func (s *raceServiceImpl) GetRaceState(ctx context.Context, sessionID string) (*engine.RaceState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Game.GetState(), nil
}

// GetHistory returns paginated turn history.
func (s *raceServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	sess.mu.Lock()
	history := make([]TurnStep, len(sess.History))
	copy(history, sess.History)
	sess.mu.Unlock()

	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	turns := []TurnStep{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			turns = append(turns, history[i])
		}
	} else if start < total {
		turns = history[start:end]
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// playOneTurn resolves a single turn. The caller holds the session
// lock.
func (s *raceServiceImpl) playOneTurn(sess *Session, move string) (*TurnResult, error) {
	game := sess.Game
	if !game.IsRunning() {
		return nil, fmt.Errorf("session %s: %w", sess.ID, ErrRaceOver)
	}

	var dir engine.Direction
	if move == "" {
		next, err := game.NextCarMove()
		if err != nil {
			return nil, err
		}
		dir = next
	} else {
		parsed, err := engine.ParseDirection(move)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		dir = parsed
	}

	index := game.GetCurrentCarIndex()
	carID := string(game.GetCarID(index))
	from := game.GetCarPosition(index)

	game.DoCarTurn(dir)

	outcome := OutcomeMoved
	if game.IsCarCrashed(index) {
		outcome = OutcomeCrashed
	} else if game.GetWinner() == index {
		outcome = OutcomeWon
	}

	step := TurnStep{
		Turn:     game.GetTotalTurns(),
		CarID:    carID,
		Move:     dir.String(),
		Outcome:  outcome,
		From:     from,
		To:       game.GetCarPosition(index),
		Velocity: game.GetCarVelocity(index),
	}
	sess.History = append(sess.History, step)
	events := turnEvents(game, step)

	game.SwitchToNextActiveCar()

	return &TurnResult{
		Turn:      step.Turn,
		CarID:     carID,
		Move:      step.Move,
		Outcome:   outcome,
		RaceState: game.GetState(),
		Events:    events,
	}, nil
}

// bindStrategies builds and attaches a move source for every car the
// session has a strategy spec for. A "user" spec leaves the car
// unbound: its moves arrive explicitly through PlayTurn. The caller
// ensures the game is fresh.
func (s *raceServiceImpl) bindStrategies(sess *Session) error {
	for carID, spec := range sess.Strategies {
		index := -1
		for i := 0; i < sess.Game.GetCarCount(); i++ {
			if string(sess.Game.GetCarID(i)) == carID {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("%w: no car %q on track %s", ErrInvalidStrategy, carID, sess.TrackName)
		}
		if spec == strategy.KindUser {
			continue
		}
		strat, err := strategy.New(spec, sess.Game, index, s.strategyDir)
		if err != nil {
			return fmt.Errorf("%w: car %q: %v", ErrInvalidStrategy, carID, err)
		}
		sess.Game.SetCarStrategy(index, strat)
	}
	return nil
}

// sessionInfo snapshots a session for API responses.
func (s *raceServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	sess.mu.Lock()
	state := sess.Game.GetState()
	sess.mu.Unlock()

	return &SessionInfo{
		ID:             sess.ID,
		TrackName:      sess.TrackName,
		Strategies:     sess.Strategies,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		RaceState:      state,
	}
}

// finalizeBulk fills the stop reason and final state of a bulk result.
// stillRunning names the reason to use when the race could continue;
// empty means the moves simply ran out.
func (s *raceServiceImpl) finalizeBulk(sess *Session, result *BulkTurnResult, stillRunning string) {
	game := sess.Game
	if result.StopReason == "" {
		if !game.IsRunning() {
			if winner := game.GetWinner(); winner != engine.NoWinner {
				result.StopReason = StopWon
				result.Message = fmt.Sprintf("car %s won the race", string(game.GetCarID(winner)))
			} else {
				result.StopReason = StopAllCrashed
				result.Message = "every car crashed, nobody wins"
			}
		} else if stillRunning != "" {
			result.StopReason = stillRunning
		}
	}
	result.RaceState = game.GetState()
}

// stopReasonForError maps a turn failure to a bulk stop reason.
func stopReasonForError(err error) string {
	switch {
	case errors.Is(err, engine.ErrNoMoveStrategy):
		return StopNoStrategy
	case errors.Is(err, engine.ErrOutOfMoves):
		return StopOutOfMoves
	default:
		return StopInvalidMove
	}
}

// turnEvents derives the events of a resolved turn. A crash that
// leaves a single live rival also produces the attrition win event.
func turnEvents(game *engine.Game, step TurnStep) []RaceEvent {
	now := time.Now()
	events := []RaceEvent{}

	switch step.Outcome {
	case OutcomeCrashed:
		events = append(events, RaceEvent{
			Type:      "crashed",
			CarID:     step.CarID,
			Message:   fmt.Sprintf("car %s crashed at (%d,%d)", step.CarID, step.To.X, step.To.Y),
			Timestamp: now,
			Position:  step.To,
		})
		if winner := game.GetWinner(); winner != engine.NoWinner {
			winnerID := string(game.GetCarID(winner))
			events = append(events, RaceEvent{
				Type:      "won",
				CarID:     winnerID,
				Message:   fmt.Sprintf("car %s wins, last one driving", winnerID),
				Timestamp: now,
				Position:  game.GetCarPosition(winner),
			})
		}
	case OutcomeWon:
		events = append(events, RaceEvent{
			Type:      "won",
			CarID:     step.CarID,
			Message:   fmt.Sprintf("car %s crossed the finish line", step.CarID),
			Timestamp: now,
			Position:  step.To,
		})
	default:
		events = append(events, RaceEvent{
			Type:      "moved",
			CarID:     step.CarID,
			Message:   fmt.Sprintf("car %s moved %s to (%d,%d)", step.CarID, step.Move, step.To.X, step.To.Y),
			Timestamp: now,
			Position:  step.To,
		})
	}

	return events
}
