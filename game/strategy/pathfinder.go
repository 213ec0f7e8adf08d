package strategy

import (
	"fmt"

	"github.com/wricardo/racetrack-game/game/engine"
)

// maxSearchStates caps the breadth-first search so open tracks with an
// unreachable finish do not grow the state space without bound.
const maxSearchStates = 250000

// PathFinder searches for the shortest sequence of accelerations that
// crosses a finish line, then replays it move by move. Rival cars are
// treated as fixed obstacles at their positions when the plan is made,
// so a route can still fail on the track if a rival drives into it.
type PathFinder struct {
	game     *engine.Game
	carIndex int
	planned  bool
	planErr  error
	route    *MoveList
}

func NewPathFinder(game *engine.Game, carIndex int) *PathFinder {
	return &PathFinder{game: game, carIndex: carIndex}
}

// Plan computes the route now instead of on the first NextMove call,
// so callers can report an unreachable finish up front.
func (s *PathFinder) Plan() error {
	if !s.planned {
		s.planned = true
		moves, err := s.planRoute()
		if err != nil {
			s.planErr = err
		} else {
			s.route = NewMoveList(moves)
		}
	}
	return s.planErr
}

func (s *PathFinder) NextMove() (engine.Direction, bool) {
	if s.Plan() != nil {
		return engine.None, false
	}
	return s.route.NextMove()
}

// carNode is one search state: where the car is and how fast it is
// going. Both matter, the same cell at a different speed reaches a
// different set of cells next turn.
type carNode struct {
	pos engine.Vector
	vel engine.Vector
}

func (s *PathFinder) planRoute() ([]engine.Direction, error) {
	track := s.game.GetTrack()
	blocked := make(map[engine.Vector]bool)
	for i := 0; i < s.game.GetCarCount(); i++ {
		if i == s.carIndex || s.game.IsCarCrashed(i) {
			continue
		}
		blocked[s.game.GetCarPosition(i)] = true
	}

	start := carNode{
		pos: s.game.GetCarPosition(s.carIndex),
		vel: s.game.GetCarVelocity(s.carIndex),
	}
	visited := map[carNode]bool{start: true}
	parent := make(map[carNode]carNode)
	via := make(map[carNode]engine.Direction)
	queue := []carNode{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions() {
			vel := node.vel.Add(dir.Vector())
			next := carNode{pos: node.pos.Add(vel), vel: vel}
			won, crashed := probeMove(track, blocked, node.pos, next.pos, vel)
			if won {
				return reconstructRoute(parent, via, start, node, dir), nil
			}
			if crashed || visited[next] {
				continue
			}
			if len(visited) >= maxSearchStates {
				return nil, fmt.Errorf("no route found within %d states", maxSearchStates)
			}
			visited[next] = true
			parent[next] = node
			via[next] = dir
			queue = append(queue, next)
		}
	}
	return nil, fmt.Errorf("no route to a finish line")
}

// probeMove walks the cells a move would sweep, in order, the same way
// the engine resolves a turn: a wall crashes the move, a finish cell
// whose required direction matches the velocity wins it even when a
// rival stands on it, and a rival on any other cell crashes the move.
func probeMove(track *engine.Track, blocked map[engine.Vector]bool, from, to, vel engine.Vector) (won, crashed bool) {
	for _, cell := range engine.CalculatePath(from, to) {
		space := track.SpaceAt(cell)
		if space == engine.SpaceWall {
			return false, true
		}
		if space.IsFinish() && vel.Sign().Dot(space.RequiredDirection()) > 0 {
			return true, false
		}
		if blocked[cell] {
			return false, true
		}
	}
	return false, false
}

func reconstructRoute(parent map[carNode]carNode, via map[carNode]engine.Direction, start, last carNode, final engine.Direction) []engine.Direction {
	rev := []engine.Direction{final}
	for node := last; node != start; node = parent[node] {
		rev = append(rev, via[node])
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
