package engine

// Next computes the following generation. Neighbors outside the grid are
// absent; there is no wraparound. The input is never modified.
func Next(g *Grid) *Grid {
	next := newGrid(g.rows, g.columns)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.columns; col++ {
			alive := g.cells[row*g.columns+col]
			next.cells[row*g.columns+col] = ShouldLive(alive, LiveNeighbors(g, row, col))
		}
	}
	return next
}

// Step applies Next n times. For n <= 0 the grid is returned unchanged.
func Step(g *Grid, n int) *Grid {
	for i := 0; i < n; i++ {
		g = Next(g)
	}
	return g
}

// LiveNeighbors counts live cells among the up to eight in-bounds cells
// adjacent to (row, col).
func LiveNeighbors(g *Grid, row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.Alive(row+dr, col+dc) {
				count++
			}
		}
	}
	return count
}

// ShouldLive applies Conway's rule: a live cell survives with 2 or 3 live
// neighbors, a dead cell is born with exactly 3.
func ShouldLive(alive bool, neighbors int) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}
