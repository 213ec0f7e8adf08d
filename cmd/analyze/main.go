// Command analyze prints quick, human-readable heuristics about track
// files in the tracks directory. It summarizes dimensions, car positions,
// finish cells by kind, wall density, and estimates how fast each car
// could possibly reach the nearest finish.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AnalysisPoint denotes a grid coordinate used during analysis output.
type AnalysisPoint struct {
	X, Y int
}

var finishNames = []struct {
	char rune
	name string
}{
	{'>', "right"},
	{'<', "left"},
	{'^', "up"},
	{'v', "down"},
}

func main() {
	trackDir := "tracks"
	if len(os.Args) > 1 {
		trackDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(trackDir, "*.txt"))
	if err != nil {
		fmt.Printf("Error finding track files: %v\n", err)
		return
	}
	if len(files) == 0 {
		fmt.Printf("No track files in %s\n", trackDir)
		return
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeTrack(file)
	}
}

func analyzeTrack(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	rows := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(rows) == 1 && rows[0] == "" {
		fmt.Printf("Error: track is empty\n")
		return
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	fmt.Printf("Grid: %d x %d\n", width, len(rows))

	// Survey the grid
	var finishes []AnalysisPoint
	finishCounts := map[rune]int{}
	cars := map[rune]AnalysisPoint{}
	wallCount := 0

	for y, row := range rows {
		for x, cell := range row {
			switch {
			case cell == '#':
				wallCount++
			case cell == '>' || cell == '<' || cell == '^' || cell == 'v':
				finishes = append(finishes, AnalysisPoint{x, y})
				finishCounts[cell]++
			case cell >= 'a' && cell <= 'i':
				cars[cell] = AnalysisPoint{x, y}
			}
		}
	}

	var kinds []string
	for _, fk := range finishNames {
		if n := finishCounts[fk.char]; n > 0 {
			kinds = append(kinds, fmt.Sprintf("%d %s", n, fk.name))
		}
	}

	fmt.Printf("Cars: %d\n", len(cars))
	if len(kinds) > 0 {
		fmt.Printf("Finish cells: %d (%s)\n", len(finishes), strings.Join(kinds, ", "))
	} else {
		fmt.Printf("Finish cells: 0\n")
	}
	cells := width * len(rows)
	fmt.Printf("Wall density: %d%% (%d/%d cells)\n", wallCount*100/cells, wallCount, cells)

	if len(finishes) == 0 {
		fmt.Printf("⚠️  WARNING: no finish cells - this race can never be won!\n")
		return
	}
	if len(cars) == 0 {
		fmt.Printf("⚠️  WARNING: no cars on this track\n")
		return
	}

	// Distance from each car to the closest finish, and the fewest turns
	// a car accelerating flat out could need to cover it.
	ids := make([]rune, 0, len(cars))
	for id := range cars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		pos := cars[id]
		minDist := 999999
		nearest := finishes[0]
		for _, finish := range finishes {
			dist := abs(pos.X-finish.X) + abs(pos.Y-finish.Y)
			if dist < minDist {
				minDist = dist
				nearest = finish
			}
		}
		turns := minTurns(max(abs(pos.X-nearest.X), abs(pos.Y-nearest.Y)))
		fmt.Printf("Car '%c' at (%d, %d): nearest finish (%d, %d), distance %d, best case %d turns\n",
			id, pos.X, pos.Y, nearest.X, nearest.Y, minDist, turns)
	}

	// A finish cell with every neighbor walled in can never be crossed
	blocked := []AnalysisPoint{}
	for _, finish := range finishes {
		if !hasOpenNeighbor(rows, finish) {
			blocked = append(blocked, finish)
		}
	}

	if len(blocked) > 0 {
		fmt.Printf("⚠️  WARNING: %d finish cells have no open approach!\n", len(blocked))
		for i, p := range blocked {
			if i < 5 { // Show first 5 blocked finishes
				fmt.Printf("   Blocked: (%d, %d)\n", p.X, p.Y)
			}
		}
		if len(blocked) > 5 {
			fmt.Printf("   ... and %d more\n", len(blocked)-5)
		}
	} else {
		fmt.Printf("✅ Every finish cell has at least one open approach\n")
	}
}

// hasOpenNeighbor reports whether any of the 8 cells around p is open
// (inside the grid and not a wall).
func hasOpenNeighbor(rows []string, p AnalysisPoint) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := p.X+dx, p.Y+dy
			if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
				continue
			}
			if rows[y][x] != '#' {
				return true
			}
		}
	}
	return false
}

// minTurns returns the fewest turns needed to travel dist cells along one
// axis when speed grows by 1 each turn: after k turns the car has covered
// 1+2+...+k = k(k+1)/2 cells.
func minTurns(dist int) int {
	turns := 0
	covered := 0
	for covered < dist {
		turns++
		covered += turns
	}
	return turns
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
