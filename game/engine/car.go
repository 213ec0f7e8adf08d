package engine

// Car is the mutable state of one race participant: where it stands,
// how fast it moves, and whether it has crashed. Cars are created from
// a track's start markers and are only mutated by the game's turn
// resolution.
type Car struct {
	id       rune
	position Vector
	velocity Vector
	crashed  bool
}

// NewCar returns a car standing still at start.
func NewCar(id rune, start Vector) *Car {
	return &Car{id: id, position: start}
}

// ID returns the single-character id from the track file.
func (c *Car) ID() rune {
	return c.id
}

// Position returns the car's current cell.
func (c *Car) Position() Vector {
	return c.position
}

// Velocity returns the car's current velocity.
func (c *Car) Velocity() Vector {
	return c.velocity
}

// IsCrashed reports whether the car has crashed.
func (c *Car) IsCrashed() bool {
	return c.crashed
}

// Accelerate adds delta to the velocity. Speed is unbounded; keeping
// the components of delta in {-1, 0, 1} is the move source's job.
func (c *Car) Accelerate(delta Vector) {
	c.velocity = c.velocity.Add(delta)
}

// NextPosition returns the cell the car would reach by applying its
// current velocity. It does not mutate the car.
func (c *Car) NextPosition() Vector {
	return c.position.Add(c.velocity)
}

// Move commits the projected move, adding the velocity to the
// position. Callers check the swept path first.
func (c *Car) Move() {
	c.position = c.position.Add(c.velocity)
}

// Crash marks the car as crashed and freezes it at pos. A crashed car
// keeps its position for the rest of the race and takes no more turns.
func (c *Car) Crash(pos Vector) {
	c.crashed = true
	c.position = pos
}
