package strategy

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wricardo/racetrack-game/game/engine"
)

// Strategy kind names accepted by New and the serving layers.
const (
	KindUser         = "user"
	KindDoNotMove    = "do_not_move"
	KindMoveList     = "move_list"
	KindPathFollower = "path_follower"
	KindPathFinder   = "path_finder"
)

// New builds a bot move source from its textual spec: "do_not_move",
// "path_finder", "move_list:<file>" or "path_follower:<file>".
// Relative file paths resolve against baseDir. The "user" kind is not
// built here: user-driven cars get their accelerations from whoever
// runs the race.
func New(spec string, game *engine.Game, carIndex int, baseDir string) (engine.MoveStrategy, error) {
	kind, arg, _ := strings.Cut(spec, ":")
	switch kind {
	case KindUser:
		return nil, fmt.Errorf("user strategy reads from the console and cannot be built from a spec")
	case KindDoNotMove:
		return NewDoNotMove(), nil
	case KindPathFinder:
		return NewPathFinder(game, carIndex), nil
	case KindMoveList:
		if arg == "" {
			return nil, fmt.Errorf("strategy %s needs a file, e.g. %s:moves/oval-b.txt", kind, kind)
		}
		return LoadMoveList(resolvePath(baseDir, arg))
	case KindPathFollower:
		if arg == "" {
			return nil, fmt.Errorf("strategy %s needs a file, e.g. %s:moves/oval-a-waypoints.txt", kind, kind)
		}
		return LoadPathFollower(resolvePath(baseDir, arg), game, carIndex)
	}
	return nil, fmt.Errorf("unknown strategy %q", spec)
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
