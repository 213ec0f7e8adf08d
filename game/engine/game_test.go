package engine

import (
	"errors"
	"testing"
)

func createTestGame(t *testing.T, lines []string) *Game {
	t.Helper()
	track, err := ParseTrack(lines)
	if err != nil {
		t.Fatalf("Failed to parse test track: %v", err)
	}
	return NewGame(track)
}

func TestNewGame(t *testing.T) {
	game := createTestGame(t, []string{
		"##########",
		"#a      >#",
		"#b      >#",
		"##########",
	})

	if game.GetCarCount() != 2 {
		t.Fatalf("Expected 2 cars, got %d", game.GetCarCount())
	}
	if game.GetCarID(0) != 'a' || game.GetCarID(1) != 'b' {
		t.Errorf("Expected cars 'a' and 'b', got %q and %q", game.GetCarID(0), game.GetCarID(1))
	}
	if game.GetCurrentCarIndex() != 0 {
		t.Errorf("Expected car 0 to start, got %d", game.GetCurrentCarIndex())
	}
	if game.GetWinner() != NoWinner {
		t.Errorf("Expected no winner at start, got %d", game.GetWinner())
	}
	if !game.IsRunning() {
		t.Error("Expected new game to be running")
	}
	if game.GetCarVelocity(0) != (Vector{}) {
		t.Errorf("Expected zero starting velocity, got %v", game.GetCarVelocity(0))
	}
}

func TestDoCarTurnMovesCar(t *testing.T) {
	game := createTestGame(t, []string{
		"#########",
		"#a     >#",
		"#########",
	})

	game.DoCarTurn(Right)
	if game.GetCarPosition(0) != (Vector{X: 2, Y: 1}) {
		t.Errorf("Expected position (2,1), got %v", game.GetCarPosition(0))
	}
	if game.GetCarVelocity(0) != (Vector{X: 1, Y: 0}) {
		t.Errorf("Expected velocity (1,0), got %v", game.GetCarVelocity(0))
	}

	// Coasting keeps the velocity.
	game.DoCarTurn(None)
	if game.GetCarPosition(0) != (Vector{X: 3, Y: 1}) {
		t.Errorf("Expected position (3,1) after coasting, got %v", game.GetCarPosition(0))
	}

	// Driving alone is not winning: only a finish crossing or the last
	// crash of a rival decides the race.
	if game.GetWinner() != NoWinner {
		t.Errorf("Expected no winner from clean moves, got %d", game.GetWinner())
	}
	if !game.IsRunning() {
		t.Error("Expected the race to still be running")
	}
}

func TestDoCarTurnZeroVelocityStaysPut(t *testing.T) {
	game := createTestGame(t, []string{
		"#########",
		"#a     >#",
		"#########",
	})

	game.DoCarTurn(None)
	if game.GetCarPosition(0) != (Vector{X: 1, Y: 1}) {
		t.Errorf("Expected car to stay at (1,1), got %v", game.GetCarPosition(0))
	}
	if game.IsCarCrashed(0) {
		t.Error("Expected standing still to be safe")
	}
}

func TestDoCarTurnWallCrash(t *testing.T) {
	game := createTestGame(t, []string{
		"######",
		"#a   #",
		"######",
	})

	game.DoCarTurn(Right) // to (2,1), velocity 1
	game.DoCarTurn(Right) // to (4,1), velocity 2
	game.DoCarTurn(Right) // sweeps into the wall at (5,1)

	if !game.IsCarCrashed(0) {
		t.Fatal("Expected car to crash into the wall")
	}
	if game.GetCarPosition(0) != (Vector{X: 5, Y: 1}) {
		t.Errorf("Expected crash site (5,1), got %v", game.GetCarPosition(0))
	}

	// A crashed car takes no further turns: state is frozen.
	game.DoCarTurn(Left)
	if game.GetCarPosition(0) != (Vector{X: 5, Y: 1}) {
		t.Errorf("Expected frozen position (5,1), got %v", game.GetCarPosition(0))
	}
	if game.GetCarVelocity(0) != (Vector{X: 3, Y: 0}) {
		t.Errorf("Expected velocity unchanged after crash, got %v", game.GetCarVelocity(0))
	}

	// Sole car crashed: nobody wins, nothing is running.
	if game.GetWinner() != NoWinner {
		t.Errorf("Expected no winner in a single-car crash, got %d", game.GetWinner())
	}
	if game.IsRunning() {
		t.Error("Expected game over with every car crashed")
	}
}

func TestDoCarTurnOutOfBoundsIsWall(t *testing.T) {
	// No wall row above the corridor: driving up leaves the grid and
	// crashes just outside it.
	game := createTestGame(t, []string{
		"a  ",
		"###",
	})

	game.DoCarTurn(Up)
	if !game.IsCarCrashed(0) {
		t.Fatal("Expected crash outside the grid")
	}
	if game.GetCarPosition(0) != (Vector{X: 0, Y: -1}) {
		t.Errorf("Expected crash site (0,-1), got %v", game.GetCarPosition(0))
	}
}

func TestDoCarTurnCarCollision(t *testing.T) {
	game := createTestGame(t, []string{
		"##########",
		"#a  b  c #",
		"##########",
	})

	game.DoCarTurn(Right) // a to (2,1)
	game.DoCarTurn(Right) // a sweeps (3,1) then hits b at (4,1)

	if !game.IsCarCrashed(0) {
		t.Fatal("Expected moving car to crash into the parked car")
	}
	if game.GetCarPosition(0) != (Vector{X: 4, Y: 1}) {
		t.Errorf("Expected crash at the occupied cell (4,1), got %v", game.GetCarPosition(0))
	}

	// The parked car is unaffected.
	if game.IsCarCrashed(1) {
		t.Error("Expected parked car to survive the collision")
	}
	if game.GetCarPosition(1) != (Vector{X: 4, Y: 1}) {
		t.Errorf("Expected parked car to stay at (4,1), got %v", game.GetCarPosition(1))
	}

	// Two cars still driving: no attrition win yet.
	if game.GetWinner() != NoWinner {
		t.Errorf("Expected no winner with two cars left, got %d", game.GetWinner())
	}
}

func TestCrashedCarsDoNotBlock(t *testing.T) {
	game := createTestGame(t, []string{
		"##########",
		"#ab    c #",
		"##########",
	})

	// a rams b and wrecks on b's cell.
	game.DoCarTurn(Right)
	if !game.IsCarCrashed(0) {
		t.Fatal("Expected a to crash into b")
	}
	game.SwitchToNextActiveCar()

	// b drives off over the wreck sharing its cell.
	game.DoCarTurn(Right)
	if game.IsCarCrashed(1) {
		t.Fatal("Expected b to drive over the wreck unharmed")
	}
	if game.GetCarPosition(1) != (Vector{X: 3, Y: 1}) {
		t.Errorf("Expected b at (3,1), got %v", game.GetCarPosition(1))
	}
}

func TestAttritionWin(t *testing.T) {
	game := createTestGame(t, []string{
		"########",
		"#a  b  #",
		"########",
	})

	game.DoCarTurn(Right) // a to (2,1)
	game.DoCarTurn(Right) // a crashes into b

	// b wins by attrition without having acted.
	if game.GetWinner() != 1 {
		t.Fatalf("Expected car 1 to win by attrition, got %d", game.GetWinner())
	}
	if game.GetCarVelocity(1) != (Vector{}) {
		t.Errorf("Expected the attrition winner to have never moved, velocity %v", game.GetCarVelocity(1))
	}
	if game.IsRunning() {
		t.Error("Expected game to stop once the winner is decided")
	}
}

func TestFinishWin(t *testing.T) {
	game := createTestGame(t, []string{
		"#########",
		"#a     >#",
		"#########",
	})

	game.DoCarTurn(Right) // to (2,1), velocity 1
	game.DoCarTurn(Right) // to (4,1), velocity 2
	game.DoCarTurn(Right) // to (7,1), crossing the finish exactly

	if game.GetWinner() != 0 {
		t.Fatalf("Expected car 0 to win, got %d", game.GetWinner())
	}
	if game.GetCarPosition(0) != (Vector{X: 7, Y: 1}) {
		t.Errorf("Expected winner parked on the finish cell (7,1), got %v", game.GetCarPosition(0))
	}
	if game.IsCarCrashed(0) {
		t.Error("Expected the winner not to be crashed")
	}
}

func TestFinishWinOverParkedRival(t *testing.T) {
	// b crosses the finish the wrong way and parks on it. The cell
	// still pays out for a: a correct-direction crossing wins before
	// any rival occupancy is considered.
	game := createTestGame(t, []string{
		"########",
		"#a  > b#",
		"########",
	})

	game.SwitchToNextActiveCar()
	game.DoCarTurn(Left) // b to (5,1)
	game.SwitchToNextActiveCar()
	game.DoCarTurn(None) // a stays put
	game.SwitchToNextActiveCar()
	game.DoCarTurn(None) // b coasts onto the finish at (4,1), no win leftward
	game.SwitchToNextActiveCar()
	game.DoCarTurn(Right) // a to (2,1)
	game.SwitchToNextActiveCar()
	game.DoCarTurn(Right) // b brakes to a stop on the finish cell
	game.SwitchToNextActiveCar()

	if game.GetCarPosition(1) != (Vector{X: 4, Y: 1}) || game.IsCarCrashed(1) {
		t.Fatalf("setup failed: b should be parked on the finish, at %v crashed=%v",
			game.GetCarPosition(1), game.IsCarCrashed(1))
	}

	game.DoCarTurn(Right) // a sweeps (3,1) then the occupied finish at (4,1)

	if game.IsCarCrashed(0) {
		t.Fatal("Expected a to win on the occupied finish, not crash into the parked rival")
	}
	if game.GetWinner() != 0 {
		t.Fatalf("Expected car 0 to win, got %d", game.GetWinner())
	}
	if game.GetCarPosition(0) != (Vector{X: 4, Y: 1}) {
		t.Errorf("Expected winner on the finish cell (4,1), got %v", game.GetCarPosition(0))
	}
	if game.IsCarCrashed(1) {
		t.Error("Expected the parked car to be unaffected")
	}
}

func TestFinishWrongDirectionIsPassable(t *testing.T) {
	game := createTestGame(t, []string{
		"##########",
		"#  >   a #",
		"##########",
	})

	game.DoCarTurn(Left) // to (6,1)
	game.DoCarTurn(Left) // to (4,1)
	game.DoCarTurn(Left) // sweeps the finish at (3,1) moving left, ends at (1,1)

	if game.IsCarCrashed(0) {
		t.Fatal("Expected wrong-direction crossing not to crash")
	}
	if game.GetWinner() != NoWinner {
		t.Fatalf("Expected wrong-direction crossing not to win, got %d", game.GetWinner())
	}
	if game.GetCarPosition(0) != (Vector{X: 1, Y: 1}) {
		t.Errorf("Expected car to continue to (1,1), got %v", game.GetCarPosition(0))
	}
}

func TestFinishRequiresMatchingDirection(t *testing.T) {
	// finish_up demands an upward velocity; crossing it downward or
	// standing on it does nothing.
	game := createTestGame(t, []string{
		"#####",
		"# a #",
		"#^^^#",
		"#   #",
		"#####",
	})

	game.DoCarTurn(Down) // crosses the finish line heading down
	if game.GetWinner() != NoWinner {
		t.Fatalf("Expected no win crossing finish_up downward, got %d", game.GetWinner())
	}
	if game.GetCarPosition(0) != (Vector{X: 2, Y: 2}) {
		t.Errorf("Expected car at (2,2), got %v", game.GetCarPosition(0))
	}

	game.DoCarTurn(Up) // brakes to zero velocity on the finish cell: still no win
	if game.GetWinner() != NoWinner {
		t.Fatalf("Expected no win standing on the finish, got %d", game.GetWinner())
	}

	game.DoCarTurn(Up) // now moving up across the line: the win fires
	if game.GetWinner() != 0 {
		t.Fatalf("Expected upward crossing to win, got %d", game.GetWinner())
	}
	if game.GetCarPosition(0) != (Vector{X: 2, Y: 1}) {
		t.Errorf("Expected winner at (2,1), got %v", game.GetCarPosition(0))
	}
}

func TestWinnerIsSetOnlyOnce(t *testing.T) {
	game := createTestGame(t, []string{
		"#########",
		"#a     >#",
		"#b     >#",
		"#########",
	})

	game.DoCarTurn(Right)
	game.DoCarTurn(Right)
	game.DoCarTurn(Right)
	if game.GetWinner() != 0 {
		t.Fatalf("Expected car 0 to win, got %d", game.GetWinner())
	}

	// Further turn resolution is a no-op for every car.
	posA := game.GetCarPosition(0)
	game.DoCarTurn(Right)
	if game.GetCarPosition(0) != posA {
		t.Error("Expected no movement after the race is decided")
	}

	game.SwitchToNextActiveCar()
	game.DoCarTurn(Right)
	if game.GetCarPosition(1) != (Vector{X: 1, Y: 2}) {
		t.Errorf("Expected car 1 frozen at (1,2), got %v", game.GetCarPosition(1))
	}
	if game.GetCarVelocity(1) != (Vector{}) {
		t.Errorf("Expected car 1 velocity untouched, got %v", game.GetCarVelocity(1))
	}
	if game.GetWinner() != 0 {
		t.Errorf("Expected winner to remain car 0, got %d", game.GetWinner())
	}
}

func TestSwitchToNextActiveCarSkipsCrashed(t *testing.T) {
	game := createTestGame(t, []string{
		"##########",
		"#a b c d #",
		"##########",
	})

	if game.GetCarCount() != 4 {
		t.Fatalf("Expected 4 cars, got %d", game.GetCarCount())
	}

	// Crash the second car by ramming it into the third.
	game.SwitchToNextActiveCar()
	game.DoCarTurn(Right) // b to (4,1)
	game.DoCarTurn(Right) // b sweeps into c at (5,1)
	if !game.IsCarCrashed(1) {
		t.Fatal("Expected the second car to crash")
	}

	// Rotation must skip the wreck: from b the turn passes 2, 3, 0
	// and then 2 again.
	want := []int{2, 3, 0, 2}
	for _, expected := range want {
		game.SwitchToNextActiveCar()
		if game.GetCurrentCarIndex() != expected {
			t.Fatalf("Expected turn to land on car %d, got %d", expected, game.GetCurrentCarIndex())
		}
	}
}

func TestTwoCarRaceEndToEnd(t *testing.T) {
	// Two cars on an open stretch: a wall row below, a finish column
	// on the right. Repeated RIGHT accelerations grow a's velocity
	// until it sweeps across the finish.
	game := createTestGame(t, []string{
		"      >",
		" a   b>",
		"#######",
	})

	// b sidesteps out of the lane (up, then brake), a keeps flooring it.
	game.DoCarTurn(Right) // a to (2,1), velocity 1
	game.SwitchToNextActiveCar()
	game.DoCarTurn(Up) // b to (5,0)
	game.SwitchToNextActiveCar()

	game.DoCarTurn(Right) // a to (4,1), velocity 2
	game.SwitchToNextActiveCar()
	game.DoCarTurn(Down) // b brakes to a stop
	game.SwitchToNextActiveCar()

	game.DoCarTurn(Right) // a sweeps (5,1), (6,1): finish crossed at speed 3

	if game.GetWinner() != 0 {
		t.Fatalf("Expected car a (index 0) to win, got %d", game.GetWinner())
	}
	if game.IsCarCrashed(0) || game.IsCarCrashed(1) {
		t.Error("Expected both cars intact")
	}
	if game.IsRunning() {
		t.Error("Expected the race to be over")
	}
}

type scriptedStrategy struct {
	moves []Direction
	next  int
}

func (s *scriptedStrategy) NextMove() (Direction, bool) {
	if s.next >= len(s.moves) {
		return None, false
	}
	move := s.moves[s.next]
	s.next++
	return move, true
}

func TestNextCarMove(t *testing.T) {
	game := createTestGame(t, []string{
		"#########",
		"#a     >#",
		"#########",
	})

	// No source bound: a wiring error, loudly distinguishable.
	if _, err := game.NextCarMove(); !errors.Is(err, ErrNoMoveStrategy) {
		t.Fatalf("Expected ErrNoMoveStrategy, got %v", err)
	}

	game.SetCarStrategy(0, &scriptedStrategy{moves: []Direction{Right}})
	if !game.HasCarStrategy(0) {
		t.Error("Expected strategy to be bound")
	}

	move, err := game.NextCarMove()
	if err != nil {
		t.Fatalf("NextCarMove failed: %v", err)
	}
	if move != Right {
		t.Errorf("Expected RIGHT, got %s", move)
	}

	// Exhausted source: the run ends, distinct from the wiring error.
	if _, err := game.NextCarMove(); !errors.Is(err, ErrOutOfMoves) {
		t.Fatalf("Expected ErrOutOfMoves, got %v", err)
	}
}

func TestGetState(t *testing.T) {
	game := createTestGame(t, []string{
		"######",
		"#ab  #",
		"######",
	})

	game.DoCarTurn(Left) // a crashes into the wall at (0,1)

	state := game.GetState()
	if len(state.Cars) != 2 {
		t.Fatalf("Expected 2 car states, got %d", len(state.Cars))
	}
	if !state.Cars[0].Crashed {
		t.Error("Expected car a to be reported crashed")
	}
	if state.Winner != "b" || state.WinnerIndex != 1 {
		t.Errorf("Expected winner b/1 by attrition, got %q/%d", state.Winner, state.WinnerIndex)
	}
	if state.Running {
		t.Error("Expected race reported as not running")
	}
	if state.TotalTurns != 1 {
		t.Errorf("Expected 1 resolved turn, got %d", state.TotalTurns)
	}

	// The rendered grid overlays the wreck and the live car.
	if state.Grid[1] != "X b  #" {
		t.Errorf("Unexpected rendered row: %q", state.Grid[1])
	}
}
