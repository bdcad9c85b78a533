// Command analyze prints quick, human-readable reports about the patterns in
// the pattern library. For every pattern it shows dimensions and population,
// runs the final state search, and flags patterns whose declared period does
// not match what the simulation observes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/patterns"
	"github.com/wricardo/mcp-training/lifegame/observability"
)

// Analysis summarizes how a single pattern evolves.
type Analysis struct {
	PatternID      string
	Name           string
	Rows           int
	Columns        int
	LiveCells      int
	DeclaredPeriod int

	// Outcome is one of the observability final state outcomes
	Outcome        string
	Transitions    int
	FirstSeen      int
	Period         int
	FinalLiveCells int
}

// PeriodMismatch reports whether a declared period disagrees with the
// simulation. A declared period means the starting layout itself repeats.
func (a *Analysis) PeriodMismatch() bool {
	if a.DeclaredPeriod == 0 {
		return false
	}
	if a.Outcome == observability.OutcomeExhausted {
		return true
	}
	return a.FirstSeen != 0 || a.Period != a.DeclaredPeriod
}

func main() {
	dir := flag.String("dir", "patterns", "Directory containing pattern files (empty for built-ins only)")
	limit := flag.Int("limit", engine.MaxFinalStateIterations, "Maximum transitions to search for a repeated state")
	flag.Parse()

	if err := run(os.Stdout, *dir, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, dir string, limit int) error {
	manager, err := patterns.NewManager(dir)
	if err != nil {
		return err
	}

	infos, err := manager.ListPatterns()
	if err != nil {
		return err
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.PatternID)

		p, err := manager.LoadPattern(info.PatternID)
		if err != nil {
			fmt.Fprintf(w, "Error loading pattern: %v\n", err)
			continue
		}

		a, err := analyzePattern(info.PatternID, p, limit)
		if err != nil {
			fmt.Fprintf(w, "Error analyzing pattern: %v\n", err)
			continue
		}
		printAnalysis(w, a, limit)
	}
	return nil
}

func analyzePattern(id string, p *engine.Pattern, limit int) (*Analysis, error) {
	grid, err := p.Grid()
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		PatternID:      id,
		Name:           p.Name,
		Rows:           grid.Rows(),
		Columns:        grid.Columns(),
		LiveCells:      grid.LiveCount(),
		DeclaredPeriod: p.Period,
	}

	final, err := engine.FindFinalState(grid, limit)
	switch {
	case errors.Is(err, engine.ErrNoStableState):
		a.Outcome = observability.OutcomeExhausted
		return a, nil
	case err != nil:
		return nil, err
	}

	a.Transitions = final.Transitions
	a.FirstSeen = final.FirstSeen
	a.Period = final.Period
	a.FinalLiveCells = final.Grid.LiveCount()
	if final.IsFixedPoint() {
		a.Outcome = observability.OutcomeFixedPoint
	} else {
		a.Outcome = observability.OutcomeOscillator
	}
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis, limit int) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Rows, a.Columns)
	fmt.Fprintf(w, "Live Cells: %d\n", a.LiveCells)

	switch a.Outcome {
	case observability.OutcomeExhausted:
		fmt.Fprintf(w, "⚠️  No repeated state within %d transitions\n", limit)
	case observability.OutcomeFixedPoint:
		fmt.Fprintf(w, "Settles into a still life after %d transitions (%d live cells)\n", a.FirstSeen, a.FinalLiveCells)
	default:
		fmt.Fprintf(w, "Enters a period %d cycle after %d transitions (%d live cells)\n", a.Period, a.FirstSeen, a.FinalLiveCells)
	}

	if a.DeclaredPeriod == 0 {
		return
	}
	if a.PeriodMismatch() {
		fmt.Fprintf(w, "⚠️  WARNING: declared period %d does not match the simulation\n", a.DeclaredPeriod)
	} else {
		fmt.Fprintf(w, "✅ Declared period %d confirmed\n", a.DeclaredPeriod)
	}
}
