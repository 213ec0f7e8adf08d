// Package engine provides the core racing logic for the Racetrack game.
//
// The engine package implements the game mechanics including:
//   - Vector arithmetic for positions, velocities and accelerations
//   - Track parsing from plain-text grid files
//   - Path rasterization between a car's old and new position
//   - Collision and finish-line detection along the swept path
//   - Turn order, crash handling and winner bookkeeping
//
// Core Types:
//
// Track is the immutable grid loaded from a track file. Game holds one
// running race on a track: the cars in turn order, whose turn it is,
// and the winner once decided. Car carries one participant's position,
// velocity and crashed flag. RaceState is the JSON snapshot served to
// clients.
//
// Usage:
//
//	track, err := engine.LoadTrackFile("tracks/oval.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game := engine.NewGame(track)
//
//	// Resolve one turn for the current car
//	game.DoCarTurn(engine.Right)
//	game.SwitchToNextActiveCar()
//	state := game.GetState()
//
// Game Rules:
//
// Cars start standing still on their marker cells. Each turn the acting
// car changes its velocity by at most one unit per axis and then sweeps
// in a straight line to position + velocity. Touching a wall or a live
// rival along the way crashes the car on the spot; crossing a finish
// cell in its required direction wins the race. When crashes leave only
// one car driving, that car wins by attrition.
package engine
