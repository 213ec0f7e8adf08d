package strategy

import (
	"testing"

	"github.com/wricardo/racetrack-game/game/engine"
)

func TestPathFinderWinsCorridor(t *testing.T) {
	game := createTestGame(t, []string{
		"#######",
		"#a   >#",
		"#######",
	})
	finder := NewPathFinder(game, 0)

	if err := finder.Plan(); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := 0; i < 20 && game.IsRunning(); i++ {
		dir, ok := finder.NextMove()
		if !ok {
			t.Fatal("path finder ran out of moves before finishing")
		}
		game.DoCarTurn(dir)
		game.SwitchToNextActiveCar()
	}

	if game.GetWinner() != 0 {
		t.Fatalf("expected car 0 to win, winner is %d", game.GetWinner())
	}
	if game.GetTotalTurns() != 3 {
		t.Errorf("expected the shortest run to take 3 turns, took %d", game.GetTotalTurns())
	}
	if game.IsCarCrashed(0) {
		t.Error("expected the car to finish intact")
	}
}

func TestPathFinderNoRouteInBox(t *testing.T) {
	game := createTestGame(t, []string{
		"#####",
		"#a  #",
		"#####",
	})
	finder := NewPathFinder(game, 0)

	if err := finder.Plan(); err == nil {
		t.Fatal("expected no route in a closed box")
	}
	if _, ok := finder.NextMove(); ok {
		t.Error("expected NextMove to report exhaustion when no route exists")
	}
}

func TestPathFinderNoRoutePastRival(t *testing.T) {
	game := createTestGame(t, []string{
		"#######",
		"#a b >#",
		"#######",
	})
	finder := NewPathFinder(game, 0)

	if err := finder.Plan(); err == nil {
		t.Fatal("expected no route through a corridor held by a live rival")
	}
}

// A wreck on the only passage must not block planning: crashed cars are
// driven over, not around.
func TestPathFinderIgnoresWrecks(t *testing.T) {
	game := createTestGame(t, []string{
		"########",
		"#ab   >#",
		"#c####d#",
		"########",
	})

	// a rams b and crashes on b's cell.
	game.DoCarTurn(engine.Right)
	game.SwitchToNextActiveCar()
	// b drives off the wreck.
	game.DoCarTurn(engine.Right)
	game.SwitchToNextActiveCar()
	// c and d wait.
	game.DoCarTurn(engine.None)
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.None)
	game.SwitchToNextActiveCar()
	// b accelerates into the top wall and crashes clear of the lane.
	game.DoCarTurn(engine.UpRight)
	game.SwitchToNextActiveCar()

	if !game.IsCarCrashed(0) || !game.IsCarCrashed(1) {
		t.Fatal("expected cars a and b to be crashed")
	}
	if game.GetCurrentCarIndex() != 2 {
		t.Fatalf("expected car c to move next, current is %d", game.GetCurrentCarIndex())
	}

	finder := NewPathFinder(game, 2)
	if err := finder.Plan(); err != nil {
		t.Fatalf("expected a route over the wreck at (2,1): %v", err)
	}

	for i := 0; i < 40 && game.IsRunning(); i++ {
		if game.GetCurrentCarIndex() == 2 {
			dir, ok := finder.NextMove()
			if !ok {
				t.Fatal("path finder ran out of moves before finishing")
			}
			game.DoCarTurn(dir)
		} else {
			game.DoCarTurn(engine.None)
		}
		game.SwitchToNextActiveCar()
	}

	if game.GetWinner() != 2 {
		t.Errorf("expected car c to win, winner is %d", game.GetWinner())
	}
}

// A live rival parked on the finish cell must not scare the search off:
// a correct-direction crossing wins before occupancy matters.
func TestPathFinderWinsOntoOccupiedFinish(t *testing.T) {
	game := createTestGame(t, []string{
		"########",
		"#a  > b#",
		"########",
	})

	// Park b on the finish via a wrong-direction crossing.
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.Left) // b to (5,1)
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.None) // a waits
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.None) // b coasts onto the finish at (4,1)
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.None) // a waits
	game.SwitchToNextActiveCar()
	game.DoCarTurn(engine.Right) // b brakes to a stop on the finish
	game.SwitchToNextActiveCar()

	if game.GetCarPosition(1) != (engine.Vector{X: 4, Y: 1}) || game.IsCarCrashed(1) {
		t.Fatalf("setup failed: b should be parked on the finish, at %v crashed=%v",
			game.GetCarPosition(1), game.IsCarCrashed(1))
	}

	finder := NewPathFinder(game, 0)
	if err := finder.Plan(); err != nil {
		t.Fatalf("expected a route onto the occupied finish: %v", err)
	}

	for i := 0; i < 20 && game.IsRunning(); i++ {
		if game.GetCurrentCarIndex() == 0 {
			dir, ok := finder.NextMove()
			if !ok {
				t.Fatal("path finder ran out of moves before finishing")
			}
			game.DoCarTurn(dir)
		} else {
			game.DoCarTurn(engine.None)
		}
		game.SwitchToNextActiveCar()
	}

	if game.GetWinner() != 0 {
		t.Fatalf("expected car a to win on the occupied finish, winner is %d", game.GetWinner())
	}
	if game.IsCarCrashed(0) {
		t.Error("expected the car to finish intact")
	}
}

func TestPathFinderStartsWithCurrentVelocity(t *testing.T) {
	game := createTestGame(t, []string{
		"#######",
		"#a   >#",
		"#######",
	})
	// One manual turn puts the car at (2,1) moving right at speed 1.
	game.DoCarTurn(engine.Right)
	game.SwitchToNextActiveCar()

	finder := NewPathFinder(game, 0)
	if err := finder.Plan(); err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := 0; i < 20 && game.IsRunning(); i++ {
		dir, ok := finder.NextMove()
		if !ok {
			t.Fatal("path finder ran out of moves before finishing")
		}
		game.DoCarTurn(dir)
		game.SwitchToNextActiveCar()
	}

	if game.GetWinner() != 0 {
		t.Errorf("expected car 0 to win, winner is %d", game.GetWinner())
	}
}
