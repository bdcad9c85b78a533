package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/patterns"
)

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Advance a pattern locally and print the layouts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Named pattern from the pattern library",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Pattern JSON file",
			},
			&cli.IntFlag{
				Name:  "generations",
				Value: 1,
				Usage: "Number of generations to advance",
			},
			&cli.BoolFlag{
				Name:  "final",
				Usage: "Advance until a configuration repeats",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("pattern"))
	file := strings.TrimSpace(cmd.String("file"))

	switch {
	case name == "" && file == "":
		return errors.New("one of --pattern or --file is required")
	case name != "" && file != "":
		return errors.New("--pattern and --file are mutually exclusive")
	case cmd.IsSet("generations") && cmd.Bool("final"):
		return errors.New("--generations and --final are mutually exclusive")
	}

	var (
		pattern *engine.Pattern
		err     error
	)
	if file != "" {
		pattern, err = patterns.LoadFile(file)
	} else {
		cfg, cfgErr := resolveSettings(cmd)
		if cfgErr != nil {
			return cfgErr
		}
		var manager *patterns.Manager
		manager, err = patterns.NewManager(cfg.PatternsDir)
		if err != nil {
			return fmt.Errorf("failed to create pattern manager: %w", err)
		}
		pattern, err = manager.LoadPattern(name)
	}
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if cmd.Bool("final") {
		return printFinalState(out, pattern, engine.MaxFinalStateIterations)
	}
	return printGenerations(out, pattern, cmd.Int("generations"))
}

// printGenerations writes the starting layout and the layout after n generations.
func printGenerations(w io.Writer, p *engine.Pattern, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: number of generations must be greater than 0, got %d", engine.ErrInvalidArgument, n)
	}

	grid, err := p.Grid()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%dx%d)\n", p.Name, grid.Rows(), grid.Columns())
	writeLayout(w, "generation 0", grid)

	after := engine.Step(grid, n)
	fmt.Fprintln(w)
	writeLayout(w, fmt.Sprintf("generation %d", n), after)
	return nil
}

// printFinalState writes the starting layout and the first repeated configuration.
func printFinalState(w io.Writer, p *engine.Pattern, limit int) error {
	grid, err := p.Grid()
	if err != nil {
		return err
	}

	final, err := engine.FindFinalState(grid, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%dx%d)\n", p.Name, grid.Rows(), grid.Columns())
	writeLayout(w, "generation 0", grid)
	fmt.Fprintln(w)

	kind := fmt.Sprintf("oscillator, period %d", final.Period)
	if final.IsFixedPoint() {
		kind = "fixed point"
	}
	writeLayout(w, fmt.Sprintf("final state after %d transitions (%s, first seen at %d)", final.Transitions, kind, final.FirstSeen), final.Grid)
	return nil
}

func writeLayout(w io.Writer, title string, g *engine.Grid) {
	fmt.Fprintln(w, title)
	for _, row := range engine.FormatLayout(g) {
		fmt.Fprintln(w, row)
	}
}
