package engine

import (
	"fmt"
	"strings"
)

// Vector is an immutable pair of integer components used for both grid
// positions and velocities. X grows to the right, Y grows downward,
// matching the row/column layout of track files.
type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of v and w.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Subtract returns the component-wise difference v - w.
func (v Vector) Subtract(w Vector) Vector {
	return Vector{X: v.X - w.X, Y: v.Y - w.Y}
}

// Abs returns a vector holding the absolute value of each component.
func (v Vector) Abs() Vector {
	return Vector{X: abs(v.X), Y: abs(v.Y)}
}

// Sign maps each component to -1, 0 or 1. The result classifies a
// velocity or displacement into one of the eight compass directions,
// or the zero vector when v is zero.
func (v Vector) Sign() Vector {
	return Vector{X: sign(v.X), Y: sign(v.Y)}
}

// Dot returns the scalar product of v and w.
func (v Vector) Dot(w Vector) int {
	return v.X*w.X + v.Y*w.Y
}

// String formats the vector in the notation waypoint files use,
// e.g. "(X:3, Y:14)".
func (v Vector) String() string {
	return fmt.Sprintf("(X:%d, Y:%d)", v.X, v.Y)
}

// ParseVector parses the "(X:3, Y:14)" notation produced by String.
func ParseVector(s string) (Vector, error) {
	var v Vector
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "(X:%d, Y:%d)", &v.X, &v.Y); err != nil {
		return Vector{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	return v, nil
}

// abs returns the absolute value of x.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// sign returns -1, 0 or 1 depending on the sign of x.
func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
