package main

import (
	"os"
	"strings"
	"testing"
)

func TestValidateTrack_ValidTrack(t *testing.T) {
	track := "########\n#a     #\n#b    >#\n########\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if !result.Valid {
		t.Errorf("Expected valid track, but got errors: %v", result.Errors)
	}

	foundGrid := false
	foundCars := false
	foundFinish := false
	for _, info := range result.Errors {
		if contains(info, "Grid: 8x4") {
			foundGrid = true
		}
		if contains(info, "Cars: 2 (a, b)") {
			foundCars = true
		}
		if contains(info, "Finish cells: 1 (1 right)") {
			foundFinish = true
		}
	}
	if !foundGrid {
		t.Error("Expected grid dimensions in info output")
	}
	if !foundCars {
		t.Error("Expected car listing in info output")
	}
	if !foundFinish {
		t.Error("Expected finish cell summary in info output")
	}
}

func TestValidateTrack_MissingFile(t *testing.T) {
	result := validateTrack("/nonexistent/track.txt")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Failed to read file") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateTrack_EmptyTrack(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid result for empty track")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Track is empty") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Track is empty' error")
	}
}

func TestValidateTrack_JaggedRows(t *testing.T) {
	track := "#####\n#a >#\n###\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to jagged rows")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Inconsistent grid width at row 3") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Inconsistent grid width' error")
	}
}

func TestValidateTrack_InvalidCharacter(t *testing.T) {
	track := "#####\n#aX>#\n#####\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to invalid character")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid character 'X' at position [2,3]") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Invalid character' error")
	}
}

func TestValidateTrack_NoCars(t *testing.T) {
	track := "#####\n#  >#\n#####\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to no cars")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Must have at least 1 car") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Must have at least 1 car' error")
	}
}

func TestValidateTrack_DuplicateCar(t *testing.T) {
	track := "#######\n#a a >#\n#######\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to duplicate car")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Duplicate car 'a'") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Duplicate car' error")
	}
}

func TestValidateTrack_NoFinish(t *testing.T) {
	track := "#####\n#a  #\n#####\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to no finish cells")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Must have at least 1 finish cell") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Must have at least 1 finish cell' error")
	}
}

func TestValidateTrack_WalledOffCar(t *testing.T) {
	track := "#######\n#a#  >#\n#######\n"

	tmpfile, err := os.CreateTemp("", "test_track_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(track))
	tmpfile.Close()

	result := validateTrack(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid track due to walled off car")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Connectivity failure") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Connectivity failure' error")
	}
}

func TestValidateConnectivity_ValidGrid(t *testing.T) {
	rows := []string{
		"######",
		"#a   #",
		"#b  >#",
		"######",
	}
	cars := map[rune]point{
		'a': {1, 1},
		'b': {1, 2},
	}

	result := validateConnectivity(rows, cars)
	if !result.Valid {
		t.Errorf("Expected valid connectivity, but got errors: %v", result.Errors)
	}
}

func TestValidateConnectivity_WalledOffCars(t *testing.T) {
	rows := []string{
		"#######",
		"#a#   #",
		"#b#  >#",
		"#######",
	}
	cars := map[rune]point{
		'a': {1, 1},
		'b': {1, 2},
	}

	result := validateConnectivity(rows, cars)
	if result.Valid {
		t.Error("Expected invalid connectivity due to walled off cars")
	}

	foundFailure := false
	foundCarA := false
	for _, err := range result.Errors {
		if contains(err, "Connectivity failure: 2/2 cars") {
			foundFailure = true
		}
		if contains(err, "Walled off: Car 'a' at (1,1)") {
			foundCarA = true
		}
	}
	if !foundFailure {
		t.Error("Expected 'Connectivity failure' error")
	}
	if !foundCarA {
		t.Error("Expected walled off report for car 'a'")
	}
}

func TestValidateConnectivity_DiagonalGap(t *testing.T) {
	// The only way out of a's pocket is the diagonal step to (2,2).
	rows := []string{
		"#####",
		"#a# #",
		"## >#",
		"#####",
	}
	cars := map[rune]point{
		'a': {1, 1},
	}

	result := validateConnectivity(rows, cars)
	if !result.Valid {
		t.Errorf("Expected valid connectivity via diagonal gap, but got errors: %v", result.Errors)
	}
}

func TestValidateConnectivity_EmptyGrid(t *testing.T) {
	result := validateConnectivity([]string{}, map[rune]point{})
	if result.Valid {
		t.Error("Expected invalid result for empty grid")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Cannot validate connectivity: empty grid") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Cannot validate connectivity: empty grid' error")
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
