package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxCars bounds how many car markers a track file may declare.
const MaxCars = 9

// ErrInvalidTrackFormat reports a track file the parser cannot accept:
// an empty grid, ragged line lengths, or a bad car roster.
var ErrInvalidTrackFormat = errors.New("invalid track format")

// CarStart is a car marker found while parsing a track file.
type CarStart struct {
	ID       rune
	Position Vector
}

// Track is the immutable playing field: a rectangular grid of spaces
// plus the car starting positions read from the file. The grid never
// changes during a race; cars move on top of it.
type Track struct {
	width  int
	height int
	grid   [][]Space
	starts []CarStart
}

// ParseTrack builds a track from the lines of a track file. Leading
// empty lines are skipped and the grid ends at the first empty line
// after it began. Grid characters: '#' wall, ' ' track, '^' 'v' '<'
// '>' finish cells; any other character marks a car start standing on
// a track cell.
func ParseTrack(lines []string) (*Track, error) {
	var rows []string
	for _, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if line == "" {
			if len(rows) == 0 {
				continue
			}
			break
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no grid lines", ErrInvalidTrackFormat)
	}

	grid := make([][]Space, len(rows))
	var starts []CarStart
	seen := make(map[rune]bool)
	width := -1

	for y, row := range rows {
		cells := []rune(row)
		if width == -1 {
			width = len(cells)
		} else if len(cells) != width {
			return nil, fmt.Errorf("%w: line %d is %d characters wide, expected %d",
				ErrInvalidTrackFormat, y+1, len(cells), width)
		}

		grid[y] = make([]Space, len(cells))
		for x, r := range cells {
			if space, ok := SpaceFromRune(r); ok {
				grid[y][x] = space
				continue
			}
			if seen[r] {
				return nil, fmt.Errorf("%w: duplicate car id %q", ErrInvalidTrackFormat, r)
			}
			seen[r] = true
			starts = append(starts, CarStart{ID: r, Position: Vector{X: x, Y: y}})
			// The car stands on plain track; the marker is not part of
			// the grid itself.
			grid[y][x] = SpaceTrack
		}
	}

	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: no cars on track", ErrInvalidTrackFormat)
	}
	if len(starts) > MaxCars {
		return nil, fmt.Errorf("%w: %d cars on track, at most %d allowed",
			ErrInvalidTrackFormat, len(starts), MaxCars)
	}

	return &Track{width: width, height: len(rows), grid: grid, starts: starts}, nil
}

// ReadTrack parses a track from r.
func ReadTrack(r io.Reader) (*Track, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseTrack(lines)
}

// LoadTrackFile reads and parses the track file at path.
func LoadTrackFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	track, err := ReadTrack(f)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", path, err)
	}
	return track, nil
}

// Width returns the number of columns in the grid.
func (t *Track) Width() int {
	return t.width
}

// Height returns the number of rows in the grid.
func (t *Track) Height() int {
	return t.height
}

// SpaceAt returns the space at pos. Every position outside the grid is
// a wall, which keeps path walks total over all coordinates.
func (t *Track) SpaceAt(pos Vector) Space {
	if pos.Y < 0 || pos.Y >= t.height || pos.X < 0 || pos.X >= t.width {
		return SpaceWall
	}
	return t.grid[pos.Y][pos.X]
}

// CarStarts returns the car markers in file order, top to bottom and
// left to right. File order fixes the turn order of the race.
func (t *Track) CarStarts() []CarStart {
	starts := make([]CarStart, len(t.starts))
	copy(starts, t.starts)
	return starts
}

// Rows renders the bare grid as text, one string per row, without
// cars.
func (t *Track) Rows() []string {
	rows := make([]string, t.height)
	var b strings.Builder
	for y, row := range t.grid {
		b.Reset()
		for _, space := range row {
			b.WriteRune(space.Rune())
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the bare track grid.
func (t *Track) String() string {
	return strings.Join(t.Rows(), "\n")
}
