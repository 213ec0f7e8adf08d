package engine

import (
	"errors"
	"fmt"
)

// NoWinner marks a race that has not been decided yet.
const NoWinner = -1

// Move source errors. ErrNoMoveStrategy is a wiring bug on the
// caller's side and distinct from any in-race outcome; ErrOutOfMoves
// is the normal end-of-input signal from a finite move source.
var (
	ErrNoMoveStrategy = errors.New("no move strategy bound for car")
	ErrOutOfMoves     = errors.New("move strategy has no more moves")
)

// MoveStrategy yields one acceleration per turn for a single car. The
// second return value is false when the source has nothing further to
// offer; the run driving that car stops there.
type MoveStrategy interface {
	NextMove() (Direction, bool)
}

// Game runs a single race: the track, the cars in turn order, whose
// turn it is, and the winner once decided. Turns resolve strictly one
// at a time, so a game belongs to one goroutine; callers sharing a
// game serialize access themselves.
type Game struct {
	track           *Track
	cars            []*Car
	strategies      []MoveStrategy
	currentCarIndex int
	winner          int
	totalTurns      int
}

// NewGame creates a race on track with one car per start marker, in
// marker order, all standing still. No move strategies are bound yet.
func NewGame(track *Track) *Game {
	starts := track.CarStarts()
	cars := make([]*Car, len(starts))
	for i, start := range starts {
		cars[i] = NewCar(start.ID, start.Position)
	}
	return &Game{
		track:      track,
		cars:       cars,
		strategies: make([]MoveStrategy, len(cars)),
		winner:     NoWinner,
	}
}

// GetTrack returns the playing field.
func (g *Game) GetTrack() *Track {
	return g.track
}

// GetCarCount returns the number of cars in the race.
func (g *Game) GetCarCount() int {
	return len(g.cars)
}

// GetCarID returns the id of the car at roster index.
func (g *Game) GetCarID(index int) rune {
	return g.cars[index].ID()
}

// GetCarPosition returns the current cell of the car at roster index.
func (g *Game) GetCarPosition(index int) Vector {
	return g.cars[index].Position()
}

// GetCarVelocity returns the current velocity of the car at roster
// index.
func (g *Game) GetCarVelocity(index int) Vector {
	return g.cars[index].Velocity()
}

// IsCarCrashed reports whether the car at roster index has crashed.
func (g *Game) IsCarCrashed(index int) bool {
	return g.cars[index].IsCrashed()
}

// GetCurrentCarIndex returns the roster index of the car whose turn it
// is.
func (g *Game) GetCurrentCarIndex() int {
	return g.currentCarIndex
}

// GetWinner returns the roster index of the winning car, or NoWinner
// while the race is undecided.
func (g *Game) GetWinner() int {
	return g.winner
}

// GetTotalTurns returns how many turns have been resolved so far.
func (g *Game) GetTotalTurns() int {
	return g.totalTurns
}

// IsRunning reports whether turns can still be resolved: no winner yet
// and at least one car still driving.
func (g *Game) IsRunning() bool {
	if g.winner != NoWinner {
		return false
	}
	for _, car := range g.cars {
		if !car.IsCrashed() {
			return true
		}
	}
	return false
}

// SetCarStrategy binds the move source for the car at roster index.
func (g *Game) SetCarStrategy(index int, strategy MoveStrategy) {
	g.strategies[index] = strategy
}

// HasCarStrategy reports whether the car at roster index has a move
// source bound.
func (g *Game) HasCarStrategy(index int) bool {
	return g.strategies[index] != nil
}

// NextCarMove asks the current car's move source for its next
// acceleration. It fails with ErrNoMoveStrategy when no source is
// bound for the car, and with ErrOutOfMoves when the bound source is
// exhausted.
func (g *Game) NextCarMove() (Direction, error) {
	strategy := g.strategies[g.currentCarIndex]
	if strategy == nil {
		return None, fmt.Errorf("%w: car %q", ErrNoMoveStrategy, g.cars[g.currentCarIndex].ID())
	}
	move, ok := strategy.NextMove()
	if !ok {
		return None, fmt.Errorf("%w: car %q", ErrOutOfMoves, g.cars[g.currentCarIndex].ID())
	}
	return move, nil
}

// DoCarTurn resolves one turn for the current car: apply the
// acceleration, sweep the resulting straight-line path cell by cell,
// and either commit the move, crash the car, or declare the winner.
// Once a winner is decided, or while the current car is crashed, the
// call is a no-op.
func (g *Game) DoCarTurn(acceleration Direction) {
	car := g.cars[g.currentCarIndex]
	if g.winner != NoWinner || car.IsCrashed() {
		return
	}

	car.Accelerate(acceleration.Vector())
	path := CalculatePath(car.Position(), car.NextPosition())

	// Cell order matters: a finish crossed the required way wins even
	// when a rival stands on the cell. Only open cells (including
	// wrong-direction finishes, which behave as open) collide with
	// rivals.
	for _, pos := range path {
		space := g.track.SpaceAt(pos)
		if space == SpaceWall {
			car.Crash(pos)
			g.checkForWinner()
			g.totalTurns++
			return
		}
		if space.IsFinish() && car.Velocity().Sign().Dot(space.RequiredDirection()) > 0 {
			car.Move()
			g.winner = g.currentCarIndex
			g.totalTurns++
			return
		}
		if g.rivalAt(pos) {
			car.Crash(pos)
			g.checkForWinner()
			g.totalTurns++
			return
		}
	}

	car.Move()
	g.totalTurns++
}

// SwitchToNextActiveCar advances the turn to the next non-crashed car,
// wrapping around the roster. With every other car crashed the turn
// lands back on the sole survivor; with no car left it stays put.
func (g *Game) SwitchToNextActiveCar() {
	for offset := 1; offset <= len(g.cars); offset++ {
		index := (g.currentCarIndex + offset) % len(g.cars)
		if !g.cars[index].IsCrashed() {
			g.currentCarIndex = index
			return
		}
	}
}

// rivalAt reports whether a live rival of the acting car occupies pos.
// Crashed cars do not block the way.
func (g *Game) rivalAt(pos Vector) bool {
	for i, other := range g.cars {
		if i == g.currentCarIndex || other.IsCrashed() {
			continue
		}
		if other.Position() == pos {
			return true
		}
	}
	return false
}

// checkForWinner declares a winner by attrition when exactly one car
// is still driving. A single-car race that crashes ends with no
// winner.
func (g *Game) checkForWinner() {
	active := 0
	index := NoWinner
	for i, car := range g.cars {
		if !car.IsCrashed() {
			active++
			index = i
		}
	}
	if active == 1 {
		g.winner = index
	}
}
