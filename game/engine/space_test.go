package engine

import (
	"testing"
)

func TestSpaceRuneRoundTrip(t *testing.T) {
	spaces := []Space{
		SpaceWall, SpaceTrack, SpaceFinishUp, SpaceFinishDown,
		SpaceFinishLeft, SpaceFinishRight,
	}

	for _, space := range spaces {
		got, ok := SpaceFromRune(space.Rune())
		if !ok {
			t.Errorf("%s: expected its rune %q to map back", space, space.Rune())
			continue
		}
		if got != space {
			t.Errorf("Expected %s, got %s", space, got)
		}
	}
}

func TestSpaceFromRuneRejectsCarMarkers(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '1', '*'} {
		if _, ok := SpaceFromRune(r); ok {
			t.Errorf("Expected %q to be treated as a car marker", r)
		}
	}
}

func TestSpaceIsFinish(t *testing.T) {
	if SpaceWall.IsFinish() || SpaceTrack.IsFinish() {
		t.Error("Walls and track cells are not finish cells")
	}
	for _, space := range []Space{SpaceFinishUp, SpaceFinishDown, SpaceFinishLeft, SpaceFinishRight} {
		if !space.IsFinish() {
			t.Errorf("Expected %s to be a finish cell", space)
		}
	}
}

func TestSpaceRequiredDirection(t *testing.T) {
	cases := []struct {
		space Space
		want  Vector
	}{
		{SpaceFinishUp, Vector{X: 0, Y: -1}},
		{SpaceFinishDown, Vector{X: 0, Y: 1}},
		{SpaceFinishLeft, Vector{X: -1, Y: 0}},
		{SpaceFinishRight, Vector{X: 1, Y: 0}},
		{SpaceTrack, Vector{}},
		{SpaceWall, Vector{}},
	}

	for _, c := range cases {
		if got := c.space.RequiredDirection(); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.space, c.want, got)
		}
	}
}
