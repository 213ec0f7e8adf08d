// Package service provides the business logic layer for the racetrack
// game.
//
// The service package implements:
//   - Multi-session race management
//   - Track catalog loading
//   - Turn resolution with per-car move strategies
//   - Session lifecycle management
//   - Turn history tracking
//
// Core Interfaces:
//
// RaceService is the main service interface providing high-level race
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. TrackManager loads race tracks from disk.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the race engine, providing session isolation and turn
// orchestration. Each session maintains its own game instance with
// independent state, serialized by a per-session lock.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	trackMgr, err := config.NewManager("tracks")
//	if err != nil {
//		log.Fatal(err)
//	}
//	raceService := service.NewRaceService(sessionMgr, trackMgr, "tracks")
//
//	// Create a session with one bot car
//	info, err := raceService.CreateSession(ctx, "oval", map[string]string{"b": "path_finder"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Resolve a turn for the current car
//	result, err := raceService.PlayTurn(ctx, info.ID, "up_right")
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain
// independent race state. Multiple sessions can run concurrently on
// different tracks. Sessions track creation time, last access time, and
// the full turn history.
package service
