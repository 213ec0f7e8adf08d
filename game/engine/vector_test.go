package engine

import (
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{X: 3, Y: -2}
	b := Vector{X: -1, Y: 5}

	if got := a.Add(b); got != (Vector{X: 2, Y: 3}) {
		t.Errorf("Add: expected (2,3), got %v", got)
	}
	if got := a.Subtract(b); got != (Vector{X: 4, Y: -7}) {
		t.Errorf("Subtract: expected (4,-7), got %v", got)
	}
	if got := a.Abs(); got != (Vector{X: 3, Y: 2}) {
		t.Errorf("Abs: expected (3,2), got %v", got)
	}
	if got := a.Dot(b); got != -13 {
		t.Errorf("Dot: expected -13, got %d", got)
	}
}

func TestVectorSign(t *testing.T) {
	cases := []struct {
		in   Vector
		want Vector
	}{
		{Vector{X: 7, Y: -3}, Vector{X: 1, Y: -1}},
		{Vector{X: -4, Y: 0}, Vector{X: -1, Y: 0}},
		{Vector{X: 0, Y: 0}, Vector{X: 0, Y: 0}},
		{Vector{X: 0, Y: 9}, Vector{X: 0, Y: 1}},
	}

	for _, c := range cases {
		if got := c.in.Sign(); got != c.want {
			t.Errorf("Sign of %v: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestVectorEquality(t *testing.T) {
	// Vectors are plain value types: equality and map keys work by
	// component.
	a := Vector{X: 1, Y: 2}
	b := Vector{X: 1, Y: 2}
	if a != b {
		t.Error("Expected equal vectors to compare equal")
	}

	seen := map[Vector]bool{a: true}
	if !seen[b] {
		t.Error("Expected vector map lookup to hit with an equal key")
	}
}

func TestVectorString(t *testing.T) {
	v := Vector{X: 3, Y: 14}
	if got := v.String(); got != "(X:3, Y:14)" {
		t.Errorf("String: expected (X:3, Y:14), got %q", got)
	}
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector(" (X:3, Y:14) ")
	if err != nil {
		t.Fatalf("ParseVector failed: %v", err)
	}
	if v != (Vector{X: 3, Y: 14}) {
		t.Errorf("Expected (3,14), got %v", v)
	}

	neg, err := ParseVector("(X:-2, Y:-7)")
	if err != nil {
		t.Fatalf("ParseVector with negatives failed: %v", err)
	}
	if neg != (Vector{X: -2, Y: -7}) {
		t.Errorf("Expected (-2,-7), got %v", neg)
	}

	if _, err := ParseVector("3,14"); err == nil {
		t.Error("Expected error for malformed vector notation")
	}
}
