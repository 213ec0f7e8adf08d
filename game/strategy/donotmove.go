package strategy

import "github.com/wricardo/racetrack-game/game/engine"

// DoNotMove never accelerates. A car driven by it coasts at whatever
// velocity it already has, which for a fresh car means standing still.
type DoNotMove struct{}

func NewDoNotMove() *DoNotMove {
	return &DoNotMove{}
}

func (s *DoNotMove) NextMove() (engine.Direction, bool) {
	return engine.None, true
}
