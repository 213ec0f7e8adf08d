package strategy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/racetrack-game/game/engine"
)

// MoveList replays a fixed sequence of accelerations, then reports
// exhaustion. Useful for scripted races and regression fixtures.
type MoveList struct {
	moves []engine.Direction
	next  int
}

func NewMoveList(moves []engine.Direction) *MoveList {
	return &MoveList{moves: moves}
}

// ReadMoveList parses one direction name per line. Blank lines and
// lines starting with '#' are skipped.
func ReadMoveList(r io.Reader) (*MoveList, error) {
	var moves []engine.Direction
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dir, err := engine.ParseDirection(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		moves = append(moves, dir)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewMoveList(moves), nil
}

func LoadMoveList(path string) (*MoveList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("move list %s: %w", path, err)
	}
	defer f.Close()

	list, err := ReadMoveList(f)
	if err != nil {
		return nil, fmt.Errorf("move list %s: %w", path, err)
	}
	return list, nil
}

func (s *MoveList) NextMove() (engine.Direction, bool) {
	if s.next >= len(s.moves) {
		return engine.None, false
	}
	move := s.moves[s.next]
	s.next++
	return move, true
}

// Remaining reports how many scripted moves are left to play.
func (s *MoveList) Remaining() int {
	return len(s.moves) - s.next
}
