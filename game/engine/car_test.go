package engine

import (
	"testing"
)

func TestNewCar(t *testing.T) {
	car := NewCar('a', Vector{X: 4, Y: 2})

	if car.ID() != 'a' {
		t.Errorf("Expected id 'a', got %q", car.ID())
	}
	if car.Position() != (Vector{X: 4, Y: 2}) {
		t.Errorf("Expected position (4,2), got %v", car.Position())
	}
	if car.Velocity() != (Vector{X: 0, Y: 0}) {
		t.Errorf("Expected zero initial velocity, got %v", car.Velocity())
	}
	if car.IsCrashed() {
		t.Error("Expected new car not to be crashed")
	}
}

func TestCarAccelerate(t *testing.T) {
	car := NewCar('a', Vector{})

	car.Accelerate(Vector{X: 1, Y: 0})
	car.Accelerate(Vector{X: 1, Y: -1})
	if car.Velocity() != (Vector{X: 2, Y: -1}) {
		t.Errorf("Expected velocity (2,-1), got %v", car.Velocity())
	}

	// Speed is unbounded: accelerating keeps stacking.
	for i := 0; i < 5; i++ {
		car.Accelerate(Vector{X: 1, Y: 0})
	}
	if car.Velocity() != (Vector{X: 7, Y: -1}) {
		t.Errorf("Expected velocity (7,-1), got %v", car.Velocity())
	}
}

func TestCarNextPositionIsPure(t *testing.T) {
	car := NewCar('a', Vector{X: 3, Y: 3})
	car.Accelerate(Vector{X: 1, Y: 1})

	for i := 0; i < 3; i++ {
		if got := car.NextPosition(); got != (Vector{X: 4, Y: 4}) {
			t.Errorf("Expected projected position (4,4), got %v", got)
		}
	}
	if car.Position() != (Vector{X: 3, Y: 3}) {
		t.Errorf("NextPosition must not move the car, position is %v", car.Position())
	}
}

func TestCarMove(t *testing.T) {
	car := NewCar('a', Vector{X: 1, Y: 1})
	car.Accelerate(Vector{X: 2, Y: 0})

	car.Move()
	if car.Position() != (Vector{X: 3, Y: 1}) {
		t.Errorf("Expected position (3,1) after move, got %v", car.Position())
	}

	// Velocity persists across turns.
	car.Move()
	if car.Position() != (Vector{X: 5, Y: 1}) {
		t.Errorf("Expected position (5,1) after second move, got %v", car.Position())
	}
}

func TestCarCrashFreezesPosition(t *testing.T) {
	car := NewCar('a', Vector{X: 1, Y: 1})
	car.Accelerate(Vector{X: 3, Y: 0})

	car.Crash(Vector{X: 2, Y: 1})
	if !car.IsCrashed() {
		t.Fatal("Expected car to be crashed")
	}
	if car.Position() != (Vector{X: 2, Y: 1}) {
		t.Errorf("Expected crash site (2,1), got %v", car.Position())
	}
}
