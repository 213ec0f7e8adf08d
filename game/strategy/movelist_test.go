package strategy

import (
	"strings"
	"testing"

	"github.com/wricardo/racetrack-game/game/engine"
)

func TestMoveListReplay(t *testing.T) {
	list := NewMoveList([]engine.Direction{engine.Right, engine.Up})

	if list.Remaining() != 2 {
		t.Errorf("expected 2 moves remaining, got %d", list.Remaining())
	}
	if dir, ok := list.NextMove(); !ok || dir != engine.Right {
		t.Errorf("first move: expected RIGHT, got %v (ok=%v)", dir, ok)
	}
	if dir, ok := list.NextMove(); !ok || dir != engine.Up {
		t.Errorf("second move: expected UP, got %v (ok=%v)", dir, ok)
	}
	if _, ok := list.NextMove(); ok {
		t.Error("expected exhaustion after the scripted moves")
	}
	if _, ok := list.NextMove(); ok {
		t.Error("expected exhaustion to be sticky")
	}
	if list.Remaining() != 0 {
		t.Errorf("expected 0 moves remaining, got %d", list.Remaining())
	}
}

func TestReadMoveList(t *testing.T) {
	input := "up\n\n# warmup lap\nRIGHT\ndown_left\n"

	list, err := ReadMoveList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMoveList failed: %v", err)
	}
	want := []engine.Direction{engine.Up, engine.Right, engine.DownLeft}
	for i, expected := range want {
		dir, ok := list.NextMove()
		if !ok {
			t.Fatalf("move %d: list exhausted early", i)
		}
		if dir != expected {
			t.Errorf("move %d: expected %v, got %v", i, expected, dir)
		}
	}
	if _, ok := list.NextMove(); ok {
		t.Error("expected exactly 3 moves")
	}
}

func TestReadMoveListBadLine(t *testing.T) {
	_, err := ReadMoveList(strings.NewReader("up\nsideways\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown direction")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected the error to name line 2, got: %v", err)
	}
}

func TestLoadMoveList(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "moves.txt", "right\nright\nnone\n")

	list, err := LoadMoveList(dir + "/moves.txt")
	if err != nil {
		t.Fatalf("LoadMoveList failed: %v", err)
	}
	if list.Remaining() != 3 {
		t.Errorf("expected 3 moves, got %d", list.Remaining())
	}

	if _, err := LoadMoveList(dir + "/missing.txt"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
