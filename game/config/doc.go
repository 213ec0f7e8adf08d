// Package config provides track catalog management for the racetrack
// game.
//
// The config package handles:
//   - Loading race tracks from plain text files
//   - Track caching (parsed tracks are immutable and shared)
//   - Default track selection
//   - Track discovery and listing
//
// Track File Format:
//
// Tracks are stored as .txt files in the tracks directory, one
// character per cell:
//   - '#' wall
//   - ' ' drivable track
//   - '^', 'v', '<', '>' finish cells and the direction a car must be
//     moving to win on them
//   - any other character marks a car's starting cell; the character is
//     the car's id
//
// Usage:
//
//	manager, err := config.NewManager("tracks")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific track
//	track, err := manager.LoadTrack("oval")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List available tracks
//	tracks, err := manager.ListTracks()
//
// The default track (used when a session names none) is the file called
// default.txt when present, otherwise the first listed track.
package config
