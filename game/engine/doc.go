// Package engine provides the core simulation logic for Conway's Game of Life.
//
// The engine package implements:
//   - An immutable rectangular Grid and the transition function Next
//   - The Board entity (identity + current grid)
//   - The Cells transfer representation used at the API boundary
//   - Text layouts and named patterns
//   - Bounded final-state detection (FindFinalState)
//
// Rules:
//
// Every cell has up to eight neighbors; cells outside the grid are absent
// (there is no wraparound). A live cell with two or three live neighbors
// survives, a dead cell with exactly three becomes live, every other cell is
// dead in the next generation.
//
// Usage:
//
//	g, err := engine.ParseLayout([]string{
//		"...",
//		"OOO",
//		"...",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	next := engine.Next(g) // vertical blinker
//
//	final, err := engine.FindFinalState(g, engine.MaxFinalStateIterations)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(final.Period) // 2
//
// Grids are never mutated after construction; every generation is a new
// allocation, so holding a *Grid keeps a valid snapshot.
package engine
