// Command validate checks every .txt track in a directory. It verifies:
//   - Rectangular grid and allowed characters (#, space, > < ^ v, a-i)
//   - Between 1 and 9 cars with unique ids
//   - Presence of at least one finish cell
//   - Connectivity: every car can reach some finish cell via 8-directional
//     movement over open cells
//
// The directory defaults to "tracks" and can be overridden with the first
// argument. Exits non-zero if any track is invalid.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

type point struct {
	X, Y int
}

var finishKinds = map[rune]string{
	'>': "right",
	'<': "left",
	'^': "up",
	'v': "down",
}

// validateTrack loads and validates a single track file. It performs
// structural checks, character validation, car and finish counting, and
// reachability analysis.
func validateTrack(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	rows := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(rows) == 1 && rows[0] == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Track is empty")
		return result
	}

	// Structural checks
	gridWidth := -1
	wallCount := 0
	finishCounts := map[rune]int{}
	cars := map[rune]point{}
	duplicateCars := map[rune]bool{}

	for y, row := range rows {
		if gridWidth == -1 {
			gridWidth = len(row)
		} else if len(row) != gridWidth {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Inconsistent grid width at row %d: expected %d, got %d", y+1, gridWidth, len(row)))
		}

		for x, char := range row {
			switch {
			case char == '#':
				wallCount++
			case char == ' ':
			case finishKinds[char] != "":
				finishCounts[char]++
			case char >= 'a' && char <= 'i':
				if _, exists := cars[char]; exists {
					duplicateCars[char] = true
				}
				cars[char] = point{x, y}
			default:
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid character '%c' at position [%d,%d]", char, y+1, x+1))
			}
		}
	}

	for id := range duplicateCars {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate car '%c'", id))
	}

	if len(cars) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 car (a-i)")
	}

	totalFinish := 0
	for _, n := range finishCounts {
		totalFinish += n
	}
	if totalFinish == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 finish cell (> < ^ v)")
	}

	// Connectivity validation - every car must be able to reach a finish
	if result.Valid {
		reachability := validateConnectivity(rows, cars)
		if !reachability.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, reachability.Errors...)
	}

	// Add informational data
	if result.Valid {
		ids := make([]string, 0, len(cars))
		for id := range cars {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)

		kinds := make([]string, 0, len(finishCounts))
		for char, n := range finishCounts {
			kinds = append(kinds, fmt.Sprintf("%d %s", n, finishKinds[char]))
		}
		sort.Strings(kinds)

		cells := len(rows) * gridWidth
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", gridWidth, len(rows)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Cars: %d (%s)", len(cars), strings.Join(ids, ", ")))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Finish cells: %d (%s)", totalFinish, strings.Join(kinds, ", ")))
		if cells > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Wall density: %d%%", wallCount*100/cells))
		}
	}

	return result
}

// validateConnectivity ensures every car can reach at least one finish
// cell moving in any of the 8 directions over open (non-wall) cells. It
// reports cars that are walled off from every finish.
func validateConnectivity(rows []string, cars map[rune]point) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	height := len(rows)
	if height == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Cannot validate connectivity: empty grid")
		return result
	}
	width := len(rows[0])

	isOpen := func(x, y int) bool {
		if x < 0 || y < 0 || y >= height || x >= width || x >= len(rows[y]) {
			return false
		}
		return rows[y][x] != '#'
	}
	isFinish := func(x, y int) bool {
		return finishKinds[rune(rows[y][x])] != ""
	}

	directions := []point{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}

	var blocked []string
	for id, start := range cars {
		visited := make([]bool, width*height)
		queue := []point{start}
		reached := false

		for len(queue) > 0 && !reached {
			current := queue[0]
			queue = queue[1:]

			if visited[current.Y*width+current.X] {
				continue
			}
			visited[current.Y*width+current.X] = true

			if isFinish(current.X, current.Y) {
				reached = true
				break
			}

			for _, dir := range directions {
				nx, ny := current.X+dir.X, current.Y+dir.Y
				if isOpen(nx, ny) && !visited[ny*width+nx] {
					queue = append(queue, point{nx, ny})
				}
			}
		}

		if !reached {
			blocked = append(blocked, fmt.Sprintf("Car '%c' at (%d,%d)", id, start.X, start.Y))
		}
	}

	if len(blocked) > 0 {
		sort.Strings(blocked)
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: %d/%d cars cannot reach a finish", len(blocked), len(cars)))
		for _, car := range blocked {
			result.Errors = append(result.Errors, fmt.Sprintf("Walled off: %s", car))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: all %d cars can reach a finish", len(cars)))
	}

	return result
}

// main scans the tracks directory for *.txt files and validates each
// one, printing a concise report and exiting with non-zero status if
// any are invalid.
func main() {
	trackDir := "tracks"
	if len(os.Args) > 1 {
		trackDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(trackDir, "*.txt"))
	if err != nil {
		fmt.Printf("Error finding track files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No track files in %s\n", trackDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateTrack(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All tracks are valid!")
	} else {
		fmt.Println("❌ Some tracks have errors")
		os.Exit(1)
	}
}
