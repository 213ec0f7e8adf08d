package strategy

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/racetrack-game/game/engine"
)

// User reads accelerations interactively, one per line. It accepts
// numpad digits laid out like the keypad (8 is up, 2 is down, 5 is
// none) as well as direction names such as "up_right". "q", "quit" or
// end of input stops the run.
type User struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewUser reads moves from in and writes prompts to out. A nil out
// suppresses prompting.
func NewUser(in io.Reader, out io.Writer) *User {
	return &User{in: bufio.NewScanner(in), out: out}
}

var numpad = map[string]engine.Direction{
	"1": engine.DownLeft,
	"2": engine.Down,
	"3": engine.DownRight,
	"4": engine.Left,
	"5": engine.None,
	"6": engine.Right,
	"7": engine.UpLeft,
	"8": engine.Up,
	"9": engine.UpRight,
}

func (s *User) NextMove() (engine.Direction, bool) {
	for {
		if s.out != nil {
			fmt.Fprint(s.out, "move [numpad 1-9 or name, q quits]> ")
		}
		if !s.in.Scan() {
			return engine.None, false
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "q" || lower == "quit" {
			return engine.None, false
		}
		if dir, ok := numpad[line]; ok {
			return dir, true
		}
		dir, err := engine.ParseDirection(line)
		if err != nil {
			if s.out != nil {
				fmt.Fprintf(s.out, "unrecognized move %q\n", line)
			}
			continue
		}
		return dir, true
	}
}
