package engine

// Space classifies a single track cell.
type Space string

const (
	SpaceWall        Space = "wall"
	SpaceTrack       Space = "track"
	SpaceFinishUp    Space = "finish_up"
	SpaceFinishDown  Space = "finish_down"
	SpaceFinishLeft  Space = "finish_left"
	SpaceFinishRight Space = "finish_right"
)

// Track file characters. Any other character in the grid marks the
// starting cell of a car.
const (
	charWall        = '#'
	charTrack       = ' '
	charFinishUp    = '^'
	charFinishDown  = 'v'
	charFinishLeft  = '<'
	charFinishRight = '>'

	// CrashIndicator replaces a car's id when rendering a crashed car.
	CrashIndicator = 'X'
)

// SpaceFromRune maps a track file character to its space. ok is false
// for characters outside the space alphabet, i.e. car markers.
func SpaceFromRune(r rune) (space Space, ok bool) {
	switch r {
	case charWall:
		return SpaceWall, true
	case charTrack:
		return SpaceTrack, true
	case charFinishUp:
		return SpaceFinishUp, true
	case charFinishDown:
		return SpaceFinishDown, true
	case charFinishLeft:
		return SpaceFinishLeft, true
	case charFinishRight:
		return SpaceFinishRight, true
	}
	return "", false
}

// Rune returns the track file character for the space.
func (s Space) Rune() rune {
	switch s {
	case SpaceTrack:
		return charTrack
	case SpaceFinishUp:
		return charFinishUp
	case SpaceFinishDown:
		return charFinishDown
	case SpaceFinishLeft:
		return charFinishLeft
	case SpaceFinishRight:
		return charFinishRight
	default:
		return charWall
	}
}

// IsFinish reports whether the space is one of the four finish kinds.
func (s Space) IsFinish() bool {
	switch s {
	case SpaceFinishUp, SpaceFinishDown, SpaceFinishLeft, SpaceFinishRight:
		return true
	}
	return false
}

// RequiredDirection returns the velocity signum a car needs on the
// constrained axis for crossing this finish space to count as a win.
// Non-finish spaces return the zero vector.
func (s Space) RequiredDirection() Vector {
	switch s {
	case SpaceFinishUp:
		return Vector{X: 0, Y: -1}
	case SpaceFinishDown:
		return Vector{X: 0, Y: 1}
	case SpaceFinishLeft:
		return Vector{X: -1, Y: 0}
	case SpaceFinishRight:
		return Vector{X: 1, Y: 0}
	}
	return Vector{}
}
