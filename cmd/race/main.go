// Command race plays Racetrack on the console.
//
// Subcommands: list the tracks in a directory, show a track layout,
// play a race interactively, or simulate a strategy-vs-strategy race
// headlessly. Cars are bound to strategies with repeatable --car flags,
// e.g. --car a=path_finder --car b=move_list:moves/oval-b.txt. In play
// mode, cars without a binding are driven from the keyboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/racetrack-game/game/config"
	"github.com/wricardo/racetrack-game/game/engine"
	"github.com/wricardo/racetrack-game/game/strategy"
)

func main() {
	cmd := &cli.Command{
		Name:  "race",
		Usage: "Grid racing in the terminal",
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			playCommand(),
			simulateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func tracksFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "tracks",
		Aliases: []string{"t"},
		Value:   "tracks",
		Usage:   "directory containing track files",
	}
}

func carFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "car",
		Usage: "bind a car to a strategy, e.g. --car a=path_finder (repeatable)",
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the tracks in a directory",
		Flags: []cli.Flag{tracksFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return listTracks(os.Stdout, cmd.String("tracks"))
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Render a track layout",
		ArgsUsage: "<track>",
		Flags:     []cli.Flag{tracksFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("usage: race show <track>")
			}
			return showTrack(os.Stdout, cmd.String("tracks"), name)
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a race; unbound cars are driven from the keyboard",
		ArgsUsage: "<track>",
		Flags: []cli.Flag{
			tracksFlag(),
			carFlag(),
			&cli.IntFlag{
				Name:  "max-turns",
				Value: 1000,
				Usage: "stop after this many turns (0 = unlimited)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("usage: race play <track>")
			}

			specs, err := parseCarFlags(cmd.StringSlice("car"))
			if err != nil {
				return err
			}

			game, err := loadGame(cmd.String("tracks"), name)
			if err != nil {
				return err
			}
			if err := bindCars(game, specs, cmd.String("tracks"), strategy.KindUser); err != nil {
				return err
			}

			return runRace(os.Stdout, game, int(cmd.Int("max-turns")), true)
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Usage:     "Run a headless strategy-vs-strategy race",
		ArgsUsage: "<track>",
		Flags: []cli.Flag{
			tracksFlag(),
			carFlag(),
			&cli.IntFlag{
				Name:  "max-turns",
				Value: 200,
				Usage: "stop after this many turns (0 = unlimited)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("usage: race simulate <track>")
			}

			specs, err := parseCarFlags(cmd.StringSlice("car"))
			if err != nil {
				return err
			}

			game, err := loadGame(cmd.String("tracks"), name)
			if err != nil {
				return err
			}
			if err := bindCars(game, specs, cmd.String("tracks"), strategy.KindPathFinder); err != nil {
				return err
			}

			return runRace(os.Stdout, game, int(cmd.Int("max-turns")), false)
		},
	}
}

// listTracks prints one line per parseable track in dir.
func listTracks(out io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	tracks, err := manager.ListTracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Fprintf(out, "no tracks in %s\n", dir)
		return nil
	}

	for _, track := range tracks {
		cars := "cars"
		if track.CarCount == 1 {
			cars = "car"
		}
		fmt.Fprintf(out, "%-20s %3dx%-3d %d %s\n",
			track.TrackID, track.Width, track.Height, track.CarCount, cars)
	}
	return nil
}

// showTrack renders a track's starting grid.
func showTrack(out io.Writer, dir, name string) error {
	game, err := loadGame(dir, name)
	if err != nil {
		return err
	}

	for _, row := range game.Grid() {
		fmt.Fprintln(out, row)
	}

	track := game.GetTrack()
	fmt.Fprintf(out, "%dx%d, %d car(s)\n", track.Width(), track.Height(), game.GetCarCount())
	return nil
}

func loadGame(dir, name string) (*engine.Game, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	track, err := manager.LoadTrack(name)
	if err != nil {
		return nil, err
	}
	return engine.NewGame(track), nil
}

// parseCarFlags turns repeated "a=path_finder" bindings into a spec map.
func parseCarFlags(values []string) (map[string]string, error) {
	specs := make(map[string]string, len(values))
	for _, value := range values {
		carID, spec, ok := strings.Cut(value, "=")
		if !ok || carID == "" || spec == "" {
			return nil, fmt.Errorf("bad --car binding %q, want car=strategy", value)
		}
		specs[carID] = spec
	}
	return specs, nil
}

// bindCars attaches a move source to every car: its --car spec if bound,
// defaultSpec otherwise. The user strategy reads from stdin and is only
// available when defaultSpec allows it (play mode).
func bindCars(game *engine.Game, specs map[string]string, baseDir, defaultSpec string) error {
	bound := make(map[string]bool, len(specs))

	for i := 0; i < game.GetCarCount(); i++ {
		carID := string(game.GetCarID(i))
		spec, ok := specs[carID]
		if !ok {
			spec = defaultSpec
		} else {
			bound[carID] = true
		}

		if spec == strategy.KindUser {
			if defaultSpec != strategy.KindUser {
				return fmt.Errorf("car %s: user strategy needs an interactive race, use play", carID)
			}
			game.SetCarStrategy(i, strategy.NewUser(os.Stdin, os.Stdout))
			continue
		}

		strat, err := strategy.New(spec, game, i, baseDir)
		if err != nil {
			return fmt.Errorf("car %s: %w", carID, err)
		}
		game.SetCarStrategy(i, strat)
	}

	for carID := range specs {
		if !bound[carID] {
			return fmt.Errorf("no car %q on this track", carID)
		}
	}
	return nil
}

// runRace drives the race to its end, a turn cap, or an exhausted move
// source. With render set it prints the grid before every turn.
func runRace(out io.Writer, game *engine.Game, maxTurns int, render bool) error {
	for turns := 0; game.IsRunning(); turns++ {
		if maxTurns > 0 && turns >= maxTurns {
			fmt.Fprintf(out, "turn cap of %d reached\n", maxTurns)
			break
		}

		if render {
			printState(out, game)
		}

		index := game.GetCurrentCarIndex()
		carID := string(game.GetCarID(index))

		dir, err := game.NextCarMove()
		if err != nil {
			fmt.Fprintf(out, "car %s: %v\n", carID, err)
			break
		}

		from := game.GetCarPosition(index)
		game.DoCarTurn(dir)
		to := game.GetCarPosition(index)
		vel := game.GetCarVelocity(index)

		outcome := "moved"
		if game.IsCarCrashed(index) {
			outcome = "crashed"
		} else if game.GetWinner() == index {
			outcome = "won"
		}

		fmt.Fprintf(out, "turn %d: car %s %s %s (%d,%d)->(%d,%d) vel (%d,%d)\n",
			game.GetTotalTurns(), carID, dir, outcome,
			from.X, from.Y, to.X, to.Y, vel.X, vel.Y)

		game.SwitchToNextActiveCar()
	}

	printResult(out, game)
	return nil
}

// printState renders the grid and whose turn it is.
func printState(out io.Writer, game *engine.Game) {
	index := game.GetCurrentCarIndex()
	pos := game.GetCarPosition(index)
	vel := game.GetCarVelocity(index)

	fmt.Fprintf(out, "\nturn %d | car %s at (%d,%d) vel (%d,%d)\n",
		game.GetTotalTurns()+1, string(game.GetCarID(index)), pos.X, pos.Y, vel.X, vel.Y)
	for _, row := range game.Grid() {
		fmt.Fprintln(out, row)
	}
}

// printResult renders the final grid and the race outcome.
func printResult(out io.Writer, game *engine.Game) {
	fmt.Fprintln(out)
	for _, row := range game.Grid() {
		fmt.Fprintln(out, row)
	}

	if winner := game.GetWinner(); winner != engine.NoWinner {
		fmt.Fprintf(out, "car %s wins after %d turns\n",
			string(game.GetCarID(winner)), game.GetTotalTurns())
	} else if !game.IsRunning() {
		fmt.Fprintln(out, "every car crashed, nobody wins")
	} else {
		fmt.Fprintf(out, "race unfinished after %d turns\n", game.GetTotalTurns())
	}
}
