package strategy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/racetrack-game/game/engine"
)

// PathFollower steers a car through a list of waypoints. Each turn it
// aims at the next waypoint it has not reached yet, accelerating on
// each axis toward the highest speed it can still brake from, so the
// car lands on the waypoint instead of flying past it.
type PathFollower struct {
	waypoints []engine.Vector
	game      *engine.Game
	carIndex  int
	next      int
}

func NewPathFollower(waypoints []engine.Vector, game *engine.Game, carIndex int) *PathFollower {
	return &PathFollower{
		waypoints: waypoints,
		game:      game,
		carIndex:  carIndex,
	}
}

// ReadWaypoints parses one waypoint per line in the "(X:3, Y:14)"
// format. Blank lines and lines starting with '#' are skipped.
func ReadWaypoints(r io.Reader) ([]engine.Vector, error) {
	var waypoints []engine.Vector
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		wp, err := engine.ParseVector(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		waypoints = append(waypoints, wp)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return waypoints, nil
}

func LoadPathFollower(path string, game *engine.Game, carIndex int) (*PathFollower, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("waypoints %s: %w", path, err)
	}
	defer f.Close()

	waypoints, err := ReadWaypoints(f)
	if err != nil {
		return nil, fmt.Errorf("waypoints %s: %w", path, err)
	}
	return NewPathFollower(waypoints, game, carIndex), nil
}

func (s *PathFollower) NextMove() (engine.Direction, bool) {
	pos := s.game.GetCarPosition(s.carIndex)
	for s.next < len(s.waypoints) && pos == s.waypoints[s.next] {
		s.next++
	}
	if s.next >= len(s.waypoints) {
		return engine.None, false
	}
	remaining := s.waypoints[s.next].Subtract(pos)
	vel := s.game.GetCarVelocity(s.carIndex)
	accel := engine.Vector{
		X: axisAccel(remaining.X, vel.X),
		Y: axisAccel(remaining.Y, vel.Y),
	}
	return engine.DirectionFromVector(accel), true
}

func axisAccel(remaining, velocity int) int {
	target := brakingSpeed(abs(remaining))
	if remaining < 0 {
		target = -target
	}
	return clamp(target-velocity, -1, 1)
}

// brakingSpeed returns the highest speed from which a car shedding one
// unit per turn still stops within dist cells: the largest k with
// k(k+1)/2 <= dist.
func brakingSpeed(dist int) int {
	k := 0
	for (k+1)*(k+2)/2 <= dist {
		k++
	}
	return k
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
