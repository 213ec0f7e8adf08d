package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the eight compass accelerations a car can apply
// in a single turn, or None to coast. Each direction carries a fixed
// vector with components in {-1, 0, 1}.
type Direction int

const (
	None Direction = iota
	Up
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

// Directions lists all nine accelerations in a stable order, None
// first. Move planners iterate this to expand a car's options.
func Directions() []Direction {
	return []Direction{None, Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}
}

// Vector returns the acceleration vector for the direction.
func (d Direction) Vector() Vector {
	switch d {
	case Up:
		return Vector{X: 0, Y: -1}
	case UpRight:
		return Vector{X: 1, Y: -1}
	case Right:
		return Vector{X: 1, Y: 0}
	case DownRight:
		return Vector{X: 1, Y: 1}
	case Down:
		return Vector{X: 0, Y: 1}
	case DownLeft:
		return Vector{X: -1, Y: 1}
	case Left:
		return Vector{X: -1, Y: 0}
	case UpLeft:
		return Vector{X: -1, Y: -1}
	default:
		return Vector{}
	}
}

// String returns the direction name as used in move list files.
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case UpRight:
		return "UP_RIGHT"
	case Right:
		return "RIGHT"
	case DownRight:
		return "DOWN_RIGHT"
	case Down:
		return "DOWN"
	case DownLeft:
		return "DOWN_LEFT"
	case Left:
		return "LEFT"
	case UpLeft:
		return "UP_LEFT"
	default:
		return "NONE"
	}
}

// DirectionFromVector classifies v by the sign of its components.
func DirectionFromVector(v Vector) Direction {
	switch v.Sign() {
	case Vector{X: 0, Y: -1}:
		return Up
	case Vector{X: 1, Y: -1}:
		return UpRight
	case Vector{X: 1, Y: 0}:
		return Right
	case Vector{X: 1, Y: 1}:
		return DownRight
	case Vector{X: 0, Y: 1}:
		return Down
	case Vector{X: -1, Y: 1}:
		return DownLeft
	case Vector{X: -1, Y: 0}:
		return Left
	case Vector{X: -1, Y: -1}:
		return UpLeft
	default:
		return None
	}
}

// ParseDirection parses a direction name such as "UP" or "down_left".
// Matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return None, nil
	case "UP":
		return Up, nil
	case "UP_RIGHT":
		return UpRight, nil
	case "RIGHT":
		return Right, nil
	case "DOWN_RIGHT":
		return DownRight, nil
	case "DOWN":
		return Down, nil
	case "DOWN_LEFT":
		return DownLeft, nil
	case "LEFT":
		return Left, nil
	case "UP_LEFT":
		return UpLeft, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}
