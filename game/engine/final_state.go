package engine

import "fmt"

// MaxFinalStateIterations bounds the search for a repeated configuration.
const MaxFinalStateIterations = 1000

// FinalState describes the first repeated configuration reached from a
// starting grid.
type FinalState struct {
	// Grid is the repeated configuration.
	Grid *Grid
	// Transitions is the number of generations applied to reach Grid.
	Transitions int
	// FirstSeen is the generation at which Grid first appeared.
	FirstSeen int
	// Period is Transitions - FirstSeen; 1 for a fixed point.
	Period int
}

// IsFixedPoint reports whether the final state maps to itself.
func (f *FinalState) IsFixedPoint() bool {
	return f.Period == 1
}

// FindFinalState advances g until a generation reproduces a configuration
// already seen since generation 0, applying at most limit transitions. The
// repeated configuration is returned. If no repeat occurs within the limit
// ErrNoStableState is returned.
func FindFinalState(g *Grid, limit int) (*FinalState, error) {
	seen := map[string]int{g.Key(): 0}

	current := g
	for transition := 1; transition <= limit; transition++ {
		current = Next(current)
		key := current.Key()
		if first, ok := seen[key]; ok {
			return &FinalState{
				Grid:        current,
				Transitions: transition,
				FirstSeen:   first,
				Period:      transition - first,
			}, nil
		}
		seen[key] = transition
	}

	return nil, fmt.Errorf("%w: board did not reach a final state after %d iterations", ErrNoStableState, limit)
}
