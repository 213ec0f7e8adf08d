// Package strategy provides the move sources that drive cars in a
// race.
//
// A move source implements engine.MoveStrategy: one acceleration per
// call, with ok reported false once the source has nothing left. The
// engine never depends on a concrete source, so strategies can be
// mixed freely within one race.
//
// Available strategies:
//   - DoNotMove: coasts forever, never accelerating
//   - MoveList: replays acceleration names from a file
//   - PathFollower: steers through waypoints from a file, braking
//     early enough to stop
//   - PathFinder: plans its own route to the nearest finish with a
//     breadth-first search and replays it
//   - User: reads accelerations interactively
//
// Bot strategies for the serving layers are built from textual specs
// by New, e.g. "path_finder" or "move_list:moves/oval-b.txt".
package strategy
